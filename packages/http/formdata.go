package http

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"
)

// FormEntry is one multipart field. Exactly one of Value or Blob is set.
type FormEntry struct {
	Name     string
	Value    string
	Blob     *Blob
	Filename string
}

// IsFile reports whether the entry carries a blob.
func (e FormEntry) IsFile() bool {
	return e.Blob != nil
}

// FormData is an ordered collection of multipart fields.
type FormData struct {
	entries []FormEntry
}

func NewFormData() *FormData {
	return &FormData{}
}

// FormDataFromMap builds form data from string fields in sorted key order.
func FormDataFromMap(fields map[string]string) *FormData {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := NewFormData()
	for _, k := range keys {
		f.Append(k, fields[k])
	}
	return f
}

// Append adds a string field.
func (f *FormData) Append(name, value string) *FormData {
	f.entries = append(f.entries, FormEntry{Name: name, Value: value})
	return f
}

// AppendBlob adds a file field. An empty filename becomes "blob".
func (f *FormData) AppendBlob(name string, b *Blob, filename string) *FormData {
	if filename == "" {
		filename = "blob"
	}
	f.entries = append(f.entries, FormEntry{Name: name, Blob: b, Filename: filename})
	return f
}

// AppendFile adds a file field named after the file.
func (f *FormData) AppendFile(name string, file *File) *FormData {
	return f.AppendBlob(name, file.Blob, file.Name)
}

// Set replaces all fields called name with a single string field, keeping
// the position of the first one.
func (f *FormData) Set(name, value string) *FormData {
	entry := FormEntry{Name: name, Value: value}
	out := f.entries[:0:0]
	replaced := false
	for _, e := range f.entries {
		if e.Name != name {
			out = append(out, e)
			continue
		}
		if !replaced {
			out = append(out, entry)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, entry)
	}
	f.entries = out
	return f
}

func (f *FormData) Delete(name string) *FormData {
	out := f.entries[:0:0]
	for _, e := range f.entries {
		if e.Name != name {
			out = append(out, e)
		}
	}
	f.entries = out
	return f
}

// Get returns the first field called name.
func (f *FormData) Get(name string) (FormEntry, bool) {
	for _, e := range f.entries {
		if e.Name == name {
			return e, true
		}
	}
	return FormEntry{}, false
}

func (f *FormData) GetAll(name string) []FormEntry {
	var out []FormEntry
	for _, e := range f.entries {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (f *FormData) Has(name string) bool {
	_, ok := f.Get(name)
	return ok
}

// Entries returns a copy of the fields in insertion order.
func (f *FormData) Entries() []FormEntry {
	out := make([]FormEntry, len(f.entries))
	copy(out, f.entries)
	return out
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Encode renders the form as a multipart/form-data body and returns it with
// its Content-Type.
func (f *FormData) Encode() ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, e := range f.entries {
		if !e.IsFile() {
			if err := writer.WriteField(e.Name, e.Value); err != nil {
				return nil, "", err
			}
			continue
		}

		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(e.Name)+`"; filename="`+quoteEscaper.Replace(e.Filename)+`"`)
		contentType := e.Blob.Type()
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(e.Blob.data); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body.Bytes(), writer.FormDataContentType(), nil
}
