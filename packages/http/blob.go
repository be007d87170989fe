package http

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArrayBuffer is a raw response byte buffer.
type ArrayBuffer []byte

// Blob is an immutable binary payload with a MIME type.
type Blob struct {
	data []byte
	typ  string
}

// NewBlob concatenates parts into a new blob. Parts may be string, []byte,
// ArrayBuffer or *Blob; any other part is formatted with %v.
func NewBlob(parts []any, mimeType string) *Blob {
	var size int
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			size += len(v)
		case []byte:
			size += len(v)
		case ArrayBuffer:
			size += len(v)
		case *Blob:
			size += len(v.data)
		}
	}

	data := make([]byte, 0, size)
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			data = append(data, v...)
		case []byte:
			data = append(data, v...)
		case ArrayBuffer:
			data = append(data, v...)
		case *Blob:
			data = append(data, v.data...)
		default:
			data = append(data, fmt.Sprintf("%v", v)...)
		}
	}
	return &Blob{data: data, typ: strings.ToLower(mimeType)}
}

// BlobFromString returns a blob holding s.
func BlobFromString(s, mimeType string) *Blob {
	return NewBlob([]any{s}, mimeType)
}

// Size is the blob length in bytes.
func (b *Blob) Size() int {
	return len(b.data)
}

// Type is the lower-cased MIME type, possibly empty.
func (b *Blob) Type() string {
	return b.typ
}

// Bytes returns a copy of the blob contents.
func (b *Blob) Bytes() []byte {
	out := make([]byte, len(b.data))
	copy(out, b.data)
	return out
}

// Slice returns a new blob for the byte range [start, end). Negative offsets
// count from the end; out of range offsets are clamped.
func (b *Blob) Slice(start, end int, mimeType string) *Blob {
	n := len(b.data)
	clamp := func(i int) int {
		if i < 0 {
			i += n
		}
		if i < 0 {
			return 0
		}
		if i > n {
			return n
		}
		return i
	}
	start, end = clamp(start), clamp(end)
	if end < start {
		end = start
	}
	return NewBlob([]any{b.data[start:end]}, mimeType)
}

// File is a named blob.
type File struct {
	*Blob
	Name         string
	LastModified time.Time
}

// NewFile wraps parts into a named file.
func NewFile(parts []any, name, mimeType string) *File {
	return &File{
		Blob:         NewBlob(parts, mimeType),
		Name:         name,
		LastModified: time.Now(),
	}
}

// OpenFile reads the file at path into memory. The MIME type is derived from
// the extension and is empty when unknown.
func OpenFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file %s: %w", path, err)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return &File{
		Blob:         &Blob{data: data, typ: strings.ToLower(mimeType)},
		Name:         filepath.Base(path),
		LastModified: info.ModTime(),
	}, nil
}
