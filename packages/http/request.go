package http

// Method is an HTTP request method.
type Method string

const (
	GET     Method = "GET"
	POST    Method = "POST"
	PUT     Method = "PUT"
	PATCH   Method = "PATCH"
	DELETE  Method = "DELETE"
	HEAD    Method = "HEAD"
	OPTIONS Method = "OPTIONS"
)

func (m Method) String() string {
	return string(m)
}

// ResponseType selects how the transport decodes the response body.
type ResponseType int

const (
	ResponseTypeText ResponseType = iota
	ResponseTypeBlob
	ResponseTypeArrayBuffer
)

// TransportValue is the string the transport expects for this response type.
func (t ResponseType) TransportValue() string {
	switch t {
	case ResponseTypeBlob:
		return "blob"
	case ResponseTypeArrayBuffer:
		return "arraybuffer"
	default:
		return "text"
	}
}

func (t ResponseType) String() string {
	return t.TransportValue()
}

// Request is an immutable description of an HTTP request. The zero value is
// not useful; start from NewRequest.
//
// Every With* method returns a new Request and leaves the receiver untouched,
// so a partially built request can be reused as a template.
type Request struct {
	url          string
	method       Method
	headers      []Header
	mimeType     *string
	responseType *ResponseType
	content      Body
}

// NewRequest returns a GET request for url with no headers, no overrides and
// an empty body.
func NewRequest(url string) Request {
	return Request{
		url:     url,
		method:  GET,
		content: EmptyBody{},
	}
}

func (r Request) URL() string {
	return r.url
}

func (r Request) Method() Method {
	return r.method
}

// Headers returns a copy of the header list in append order.
func (r Request) Headers() []Header {
	if len(r.headers) == 0 {
		return nil
	}
	out := make([]Header, len(r.headers))
	copy(out, r.headers)
	return out
}

// MimeType returns the MIME type override, if any.
func (r Request) MimeType() (string, bool) {
	if r.mimeType == nil {
		return "", false
	}
	return *r.mimeType, true
}

// ResponseType returns the response type override, if any.
func (r Request) ResponseType() (ResponseType, bool) {
	if r.responseType == nil {
		return 0, false
	}
	return *r.responseType, true
}

func (r Request) Content() Body {
	if r.content == nil {
		return EmptyBody{}
	}
	return r.content
}

func (r Request) WithURL(url string) Request {
	r.url = url
	return r
}

func (r Request) WithMethod(m Method) Request {
	r.method = m
	return r
}

// WithHeader appends h after any existing headers. Duplicate names are kept.
func (r Request) WithHeader(h Header) Request {
	return r.WithHeaders(h)
}

// WithHeaders appends hs in order after any existing headers.
func (r Request) WithHeaders(hs ...Header) Request {
	headers := make([]Header, 0, len(r.headers)+len(hs))
	headers = append(headers, r.headers...)
	headers = append(headers, hs...)
	r.headers = headers
	return r
}

func (r Request) WithMimeType(mimeType string) Request {
	r.mimeType = &mimeType
	return r
}

func (r Request) WithResponseType(t ResponseType) Request {
	r.responseType = &t
	return r
}

// WithContent replaces the body. Bodies are never merged.
func (r Request) WithContent(b Body) Request {
	if b == nil {
		b = EmptyBody{}
	}
	r.content = b
	return r
}

// The functions below take the request last so they can be composed
// as transformations.

func SetMethod(m Method, r Request) Request {
	return r.WithMethod(m)
}

func AddHeader(h Header, r Request) Request {
	return r.WithHeader(h)
}

func AddHeaders(hs []Header, r Request) Request {
	return r.WithHeaders(hs...)
}

func OverrideMimeType(mimeType string, r Request) Request {
	return r.WithMimeType(mimeType)
}

func OverrideResponseType(t ResponseType, r Request) Request {
	return r.WithResponseType(t)
}

func SetContent(b Body, r Request) Request {
	return r.WithContent(b)
}

// Transformation is a single builder step.
type Transformation func(Request) Request

// Build applies steps in order to the default request for url.
func Build(url string, steps ...Transformation) Request {
	r := NewRequest(url)
	for _, step := range steps {
		r = step(r)
	}
	return r
}
