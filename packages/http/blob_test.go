package http

import (
	"bytes"
	"context"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBlob(t *testing.T) {
	inner := BlobFromString("c", "")
	b := NewBlob([]any{"a", []byte("b"), inner, ArrayBuffer("d"), 5}, "Text/Plain")

	assert.Equal(t, "abcd5", string(b.Bytes()))
	assert.Equal(t, 5, b.Size())
	assert.Equal(t, "text/plain", b.Type())

	copied := b.Bytes()
	copied[0] = 'z'
	assert.Equal(t, "abcd5", string(b.Bytes()))
}

func TestBlob_Slice(t *testing.T) {
	b := BlobFromString("hello world", "text/plain")

	assert.Equal(t, "hello", string(b.Slice(0, 5, "").Bytes()))
	assert.Equal(t, "world", string(b.Slice(-5, b.Size(), "").Bytes()))
	assert.Equal(t, "", string(b.Slice(8, 2, "").Bytes()))
	assert.Equal(t, "hello world", string(b.Slice(-100, 100, "").Bytes()))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a":1}`), 0644))

	f, err := OpenFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data.json", f.Name)
	assert.Equal(t, "application/json", f.Type())
	assert.Equal(t, `{"a":1}`, string(f.Bytes()))
	assert.False(t, f.LastModified.IsZero())

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFormData_Operations(t *testing.T) {
	f := NewFormData().
		Append("a", "1").
		Append("b", "2").
		Append("a", "3")

	assert.True(t, f.Has("a"))
	assert.Len(t, f.GetAll("a"), 2)
	first, ok := f.Get("a")
	require.True(t, ok)
	assert.Equal(t, "1", first.Value)

	f.Set("a", "9")
	assert.Equal(t, []FormEntry{{Name: "a", Value: "9"}, {Name: "b", Value: "2"}}, f.Entries())

	f.Delete("a")
	assert.False(t, f.Has("a"))
	assert.Len(t, f.Entries(), 1)
}

func TestFormDataFromMap(t *testing.T) {
	f := FormDataFromMap(map[string]string{"z": "1", "a": "2"})
	entries := f.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Name)
	assert.Equal(t, "z", entries[1].Name)
}

func TestFormData_Encode(t *testing.T) {
	file := NewFile([]any{"contents"}, "report.csv", "text/csv")
	f := NewFormData().
		Append("field", "value").
		AppendFile("upload", file).
		AppendBlob("raw", BlobFromString("x", ""), "")

	body, contentType, err := f.Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	assert.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])

	part, err := reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "field", part.FormName())
	data, _ := io.ReadAll(part)
	assert.Equal(t, "value", string(data))

	part, err = reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "upload", part.FormName())
	assert.Equal(t, "report.csv", part.FileName())
	assert.Equal(t, "text/csv", part.Header.Get("Content-Type"))
	data, _ = io.ReadAll(part)
	assert.Equal(t, "contents", string(data))

	part, err = reader.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "blob", part.FileName())
	assert.Equal(t, "application/octet-stream", part.Header.Get("Content-Type"))

	_, err = reader.NextPart()
	assert.Equal(t, io.EOF, err)
}

func TestFileReader(t *testing.T) {
	r := NewFileReader()
	assert.Equal(t, ReaderEmpty, r.ReadyState())
	assert.Nil(t, r.Result())

	done := make(chan struct{})
	calls := 0
	r.OnLoadEnd(func() {
		calls++
		close(done)
	})

	require.NoError(t, r.ReadAsArrayBuffer(BlobFromString("abc", "")))
	<-done

	assert.Equal(t, ReaderDone, r.ReadyState())
	assert.Equal(t, ArrayBuffer("abc"), r.Result())
	assert.Equal(t, 1, calls)
}

func TestReadBlobAsText(t *testing.T) {
	text, err := ReadBlobAsText(BlobFromString("hello!", "")).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello!", text)

	latin1 := NewBlob([]any{[]byte{'n', 0xe9}}, "text/plain; charset=iso-8859-1")
	text, err = ReadBlobAsText(latin1).Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "né", text)

	_, err = ReadBlobAsText(nil).Await(context.Background())
	assert.Error(t, err)
}
