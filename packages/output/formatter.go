package output

import (
	"fmt"
	"io"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/http"
)

// Result is one executed request as shown to the user.
type Result struct {
	Method   http.Method
	URL      string
	Response http.Response
	Duration time.Duration
	Captures map[string]any
}

// ReplyResult wraps a convenience verb reply as a Result.
func ReplyResult(method http.Method, url string, reply http.Reply, d time.Duration) Result {
	return Result{
		Method: method,
		URL:    url,
		Response: http.Response{
			StatusCode:   reply.StatusCode,
			ResponseText: reply.ResponseText,
			Headers:      map[string]string{},
			Content:      http.TextContent{Text: reply.ResponseText},
		},
		Duration: d,
	}
}

// Formatter writes results.
type Formatter interface {
	FormatResult(result Result) error
}

// New returns the formatter called name ("console" or "json").
func New(name string, w io.Writer, opts ...ConsoleOption) (Formatter, error) {
	switch name {
	case "", "console":
		return NewConsoleFormatter(append([]ConsoleOption{WithWriter(w)}, opts...)...), nil
	case "json":
		return NewJSONFormatter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (use console or json)", name)
}

// contentKind names the response content variant.
func contentKind(c http.ResponseContent) string {
	switch c.(type) {
	case http.TextContent:
		return "text"
	case http.BlobContent:
		return "blob"
	case http.ArrayBufferContent:
		return "arraybuffer"
	case http.UnknownContent:
		return "unknown"
	}
	return "none"
}
