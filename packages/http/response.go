package http

import (
	"fmt"
	"strings"
)

// ResponseContent is the decoded response body. The variants are
// TextContent, BlobContent, ArrayBufferContent and UnknownContent.
type ResponseContent interface {
	isResponseContent()
}

type TextContent struct {
	Text string
}

type BlobContent struct {
	Blob *Blob
}

type ArrayBufferContent struct {
	Data ArrayBuffer
}

// UnknownContent holds whatever the transport returned for a response type
// this package does not decode.
type UnknownContent struct {
	Raw any
}

func (TextContent) isResponseContent()        {}
func (BlobContent) isResponseContent()        {}
func (ArrayBufferContent) isResponseContent() {}
func (UnknownContent) isResponseContent()     {}

// Response is the normalized result of Send. HTTP error statuses are
// ordinary responses; callers inspect StatusCode.
type Response struct {
	StatusCode   int
	ResponseText string
	ResponseType string
	Headers      map[string]string
	Content      ResponseContent
}

// Header looks up a response header by any casing.
func (r Response) Header(name string) string {
	return r.Headers[strings.ToLower(name)]
}

func (r Response) ContentType() string {
	return r.Header("Content-Type")
}

// Body returns the response body as bytes, whatever the content variant.
func (r Response) Body() []byte {
	switch c := r.Content.(type) {
	case TextContent:
		return []byte(c.Text)
	case BlobContent:
		if c.Blob == nil {
			return nil
		}
		return c.Blob.Bytes()
	case ArrayBufferContent:
		return []byte(c.Data)
	case UnknownContent:
		switch raw := c.Raw.(type) {
		case nil:
			return nil
		case []byte:
			return raw
		case string:
			return []byte(raw)
		case fmt.Stringer:
			return []byte(raw.String())
		default:
			return []byte(fmt.Sprintf("%v", raw))
		}
	}
	return nil
}

func (r Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

func (r Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

func (r Response) IsServerError() bool {
	return r.StatusCode >= 500
}

// IsNetworkError reports a transport-level failure; the transport finished
// without ever receiving a status line.
func (r Response) IsNetworkError() bool {
	return r.StatusCode == 0
}

// Reply is the reduced result of the convenience verbs.
type Reply struct {
	StatusCode   int
	ResponseText string
}

// decodeResponse reads a finished transport. It switches on the response
// type the transport reports, not the one that was requested.
func decodeResponse(t Transport) Response {
	resp := Response{
		StatusCode:   t.Status(),
		ResponseType: t.ResponseType(),
		Headers:      ParseHeaderBlock(t.AllResponseHeaders()),
	}

	switch resp.ResponseType {
	case "", "text":
		resp.ResponseText = t.ResponseText()
		resp.Content = TextContent{Text: resp.ResponseText}
	case "arraybuffer":
		resp.Content = ArrayBufferContent{Data: asArrayBuffer(t.Response())}
	case "blob":
		blob, ok := t.Response().(*Blob)
		if !ok {
			resp.Content = UnknownContent{Raw: t.Response()}
			break
		}
		resp.Content = BlobContent{Blob: blob}
	default:
		resp.Content = UnknownContent{Raw: t.Response()}
	}
	return resp
}

func asArrayBuffer(raw any) ArrayBuffer {
	switch v := raw.(type) {
	case ArrayBuffer:
		return v
	case []byte:
		return ArrayBuffer(v)
	}
	return nil
}
