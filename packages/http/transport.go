package http

import "errors"

// ReadyState is the lifecycle state of a Transport.
type ReadyState int

const (
	Unsent ReadyState = iota
	Opened
	HeadersReceived
	Loading
	Done
)

func (s ReadyState) String() string {
	switch s {
	case Unsent:
		return "UNSENT"
	case Opened:
		return "OPENED"
	case HeadersReceived:
		return "HEADERS_RECEIVED"
	case Loading:
		return "LOADING"
	case Done:
		return "DONE"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrInvalidState is returned when a transport is used out of order.
	ErrInvalidState = errors.New("transport is in an invalid state")
	// ErrInvalidMethod is returned by Open for a malformed method token.
	ErrInvalidMethod = errors.New("invalid HTTP method")
	// ErrInvalidURL is returned by Open for a URL that cannot be parsed.
	ErrInvalidURL = errors.New("invalid URL")
)

// Transport is an XHR-style asynchronous request object. A transport is used
// for exactly one request.
//
// Open, OverrideMimeType, SetResponseType and SetRequestHeader configure the
// request; one of the Send methods starts it. The callback registered with
// OnReadyStateChange observes every state transition and the exchange is
// complete once ReadyState reports Done. Network failures are not errors: the
// transport reaches Done with status 0.
type Transport interface {
	Open(method, url string) error
	SetRequestHeader(name, value string) error
	OverrideMimeType(mimeType string) error
	SetResponseType(responseType string) error
	OnReadyStateChange(fn func())

	Send() error
	SendText(body string) error
	SendBlob(body *Blob) error
	SendForm(body *FormData) error

	ReadyState() ReadyState
	Status() int
	ResponseText() string
	ResponseType() string
	Response() any
	AllResponseHeaders() string
}

// TransportFactory creates a fresh transport per request.
type TransportFactory func() (Transport, error)
