package http

import (
	"fmt"
	"sync"
)

// FileReader reads a blob back out asynchronously. Each read moves the
// reader from Empty through Loading to its Done state and calls the
// OnLoadEnd callback exactly once.
type FileReader struct {
	mu        sync.Mutex
	state     ReaderState
	result    any
	onLoadEnd func()
}

// ReaderState is the lifecycle state of a FileReader.
type ReaderState int

const (
	ReaderEmpty ReaderState = iota
	ReaderLoading
	ReaderDone
)

func NewFileReader() *FileReader {
	return &FileReader{}
}

func (r *FileReader) OnLoadEnd(fn func()) {
	r.mu.Lock()
	r.onLoadEnd = fn
	r.mu.Unlock()
}

func (r *FileReader) ReadyState() ReaderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Result is a string after ReadAsText, an ArrayBuffer after
// ReadAsArrayBuffer, and nil before the read completes.
func (r *FileReader) Result() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != ReaderDone {
		return nil
	}
	return r.result
}

// ReadAsText decodes the blob with charset, or with the charset of the
// blob type, defaulting to UTF-8.
func (r *FileReader) ReadAsText(b *Blob, charset string) error {
	if charset == "" {
		charset = charsetOf(b.Type())
	}
	return r.read(func() any {
		return decodeText(b.data, charset)
	})
}

func (r *FileReader) ReadAsArrayBuffer(b *Blob) error {
	return r.read(func() any {
		return ArrayBuffer(b.Bytes())
	})
}

func (r *FileReader) read(load func() any) error {
	r.mu.Lock()
	if r.state == ReaderLoading {
		r.mu.Unlock()
		return fmt.Errorf("file reader: %w", ErrInvalidState)
	}
	r.state = ReaderLoading
	r.result = nil
	r.mu.Unlock()

	go func() {
		result := load()

		r.mu.Lock()
		r.result = result
		r.state = ReaderDone
		fn := r.onLoadEnd
		r.mu.Unlock()

		if fn != nil {
			fn()
		}
	}()
	return nil
}

// ReadBlobAsText reads b as text with a fresh FileReader.
func ReadBlobAsText(b *Blob) *Future[string] {
	if b == nil {
		return failedFuture[string](fmt.Errorf("read blob: nil blob"))
	}

	r := NewFileReader()
	f := newFuture[string]()
	r.OnLoadEnd(func() {
		if r.ReadyState() != ReaderDone {
			return
		}
		text, _ := r.Result().(string)
		f.resolve(text, nil)
	})
	if err := r.ReadAsText(b, ""); err != nil {
		return failedFuture[string](err)
	}
	return f
}
