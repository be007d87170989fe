package output

import (
	"encoding/json"
	"io"
	"os"
	"unicode/utf8"
)

// JSONResult is the JSON form of a Result.
type JSONResult struct {
	Method       string            `json:"method"`
	URL          string            `json:"url"`
	StatusCode   int               `json:"statusCode"`
	ResponseType string            `json:"responseType"`
	Content      string            `json:"content"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         string            `json:"body,omitempty"`
	BodyBytes    []byte            `json:"bodyBytes,omitempty"`
	Duration     float64           `json:"duration"`
	Captures     map[string]any    `json:"captures,omitempty"`
}

type JSONFormatter struct {
	writer io.Writer
}

func NewJSONFormatter(w io.Writer) *JSONFormatter {
	if w == nil {
		w = os.Stdout
	}
	return &JSONFormatter{writer: w}
}

// FormatResult writes one JSON document per result. Binary bodies are
// emitted base64-encoded in bodyBytes.
func (f *JSONFormatter) FormatResult(result Result) error {
	resp := result.Response
	out := JSONResult{
		Method:       string(result.Method),
		URL:          result.URL,
		StatusCode:   resp.StatusCode,
		ResponseType: resp.ResponseType,
		Content:      contentKind(resp.Content),
		Headers:      resp.Headers,
		Duration:     float64(result.Duration.Microseconds()) / 1000,
		Captures:     result.Captures,
	}

	body := resp.Body()
	if utf8.Valid(body) {
		out.Body = string(body)
	} else {
		out.BodyBytes = body
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
