package http

import (
	"bytes"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsetOf extracts the charset parameter of a MIME type, lower-cased.
func charsetOf(mimeType string) string {
	if mimeType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}

// decodeText converts body to a Go string using charset, falling back to
// UTF-8 for empty or unknown charsets.
func decodeText(body []byte, charset string) string {
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return string(bytes.TrimPrefix(body, utf8BOM))
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		return string(bytes.TrimPrefix(body, utf8BOM))
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
