package capture

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/tidwall/gjson"
)

// Source is where a captured value comes from.
type Source int

const (
	SourceBody Source = iota
	SourceHeader
	SourceStatus
	SourceType
)

// Capture is a parsed capture expression.
type Capture struct {
	Source Source
	Path   string
}

// ParseExpression parses "status", "type", "header.<name>", "body" or
// "body.<path>".
func ParseExpression(expr string) (Capture, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "status":
		return Capture{Source: SourceStatus}, nil
	case expr == "type":
		return Capture{Source: SourceType}, nil
	case expr == "body":
		return Capture{Source: SourceBody}, nil
	case strings.HasPrefix(expr, "body."):
		return Capture{Source: SourceBody, Path: strings.TrimPrefix(expr, "body.")}, nil
	case strings.HasPrefix(expr, "header."):
		name := strings.TrimPrefix(expr, "header.")
		if name == "" {
			return Capture{}, fmt.Errorf("capture expression %q: missing header name", expr)
		}
		return Capture{Source: SourceHeader, Path: name}, nil
	}
	return Capture{}, fmt.Errorf("unknown capture expression %q", expr)
}

type Extractor struct {
	response http.Response
	bodyJSON gjson.Result
}

func NewExtractor(resp http.Response) *Extractor {
	e := &Extractor{
		response: resp,
	}
	if raw, ok := resp.Content.(http.UnknownContent); ok {
		if result, ok := raw.Raw.(gjson.Result); ok {
			e.bodyJSON = result
			return e
		}
	}
	if body := resp.Body(); gjson.ValidBytes(body) {
		e.bodyJSON = gjson.ParseBytes(body)
	}
	return e
}

func (e *Extractor) Extract(capture Capture) (any, bool) {
	switch capture.Source {
	case SourceBody:
		return e.extractFromBody(capture.Path)
	case SourceHeader:
		return e.extractFromHeader(capture.Path)
	case SourceStatus:
		return e.response.StatusCode, true
	case SourceType:
		return e.response.ResponseType, true
	default:
		return nil, false
	}
}

func (e *Extractor) extractFromBody(path string) (any, bool) {
	if !e.bodyJSON.Exists() {
		if path == "" {
			return string(e.response.Body()), true
		}
		return nil, false
	}

	if path == "" {
		return e.bodyJSON.Value(), true
	}

	result := e.bodyJSON.Get(path)
	if !result.Exists() {
		return nil, false
	}
	return result.Value(), true
}

func (e *Extractor) extractFromHeader(name string) (any, bool) {
	value, ok := e.response.Headers[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return value, true
}

// ExtractAll evaluates named expressions; unparsable or missing ones are
// left out of the result.
func ExtractAll(resp http.Response, exprs map[string]string) map[string]any {
	extractor := NewExtractor(resp)
	results := make(map[string]any)

	for name, expr := range exprs {
		c, err := ParseExpression(expr)
		if err != nil {
			continue
		}
		if value, ok := extractor.Extract(c); ok {
			results[name] = value
		}
	}

	return results
}
