package http

import (
	"context"
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/core/config"
	"github.com/abdul-hamid-achik/xhrkit/packages/log"
)

var logger = log.NewLoggerForModule("xhrkit.http")

// Client executes requests over transports produced by its factory. A
// client holds no per-request state and is safe for concurrent use.
type Client struct {
	newTransport TransportFactory
}

type ClientOption func(*Client)

// WithTransportFactory replaces the net/http-backed default.
func WithTransportFactory(f TransportFactory) ClientOption {
	return func(c *Client) {
		c.newTransport = f
	}
}

// WithNetwork configures the default net/http-backed transports.
func WithNetwork(opts ...NetworkOption) ClientOption {
	return func(c *Client) {
		c.newTransport = NewNetTransportFactory(opts...)
	}
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.newTransport == nil {
		c.newTransport = NewNetTransportFactory()
	}
	return c
}

// NewClientFromConfig builds a client whose transports follow cfg.
func NewClientFromConfig(cfg *config.Config) *Client {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	opts := []NetworkOption{
		WithTimeout(time.Duration(cfg.Timeout) * time.Millisecond),
		WithFollowRedirects(cfg.GetFollowRedirects()),
		WithValidateSSL(cfg.GetValidateSSL()),
		WithProxy(cfg.Proxy),
	}
	if cfg.MaxRedirects > 0 {
		opts = append(opts, WithMaxRedirects(cfg.MaxRedirects))
	}
	for _, h := range cfg.SortedHeaders() {
		opts = append(opts, WithDefaultHeader(h[0], h[1]))
	}
	return NewClient(WithNetwork(opts...))
}

// DefaultClient is used by the package-level Send and verb functions.
var DefaultClient = NewClient()

// Send executes req on a fresh transport. The future resolves once the
// transport reports Done, with whatever status and body it has: network
// failures and HTTP error statuses are responses, not errors. Only a failure
// to create, open or start the transport resolves with an error.
func (c *Client) Send(req Request) *Future[Response] {
	t, err := c.newTransport()
	if err != nil {
		return failedFuture[Response](fmt.Errorf("failed to create transport: %w", err))
	}

	if err := t.Open(string(req.Method()), req.URL()); err != nil {
		return failedFuture[Response](fmt.Errorf("failed to open %s %s: %w", req.Method(), req.URL(), err))
	}

	f := newFuture[Response]()
	t.OnReadyStateChange(func() {
		if t.ReadyState() != Done {
			return
		}
		if !f.resolve(decodeResponse(t), nil) {
			logger.Debug("ignoring repeated completion for %s %s", req.Method(), req.URL())
		}
	})

	for _, h := range req.Headers() {
		if err := t.SetRequestHeader(h.Name, h.Value); err != nil {
			return failedFuture[Response](fmt.Errorf("failed to set header %s: %w", h.Name, err))
		}
	}

	if mimeType, ok := req.MimeType(); ok {
		if err := t.OverrideMimeType(mimeType); err != nil {
			return failedFuture[Response](fmt.Errorf("failed to override mime type: %w", err))
		}
	}

	if rt, ok := req.ResponseType(); ok {
		if err := t.SetResponseType(rt.TransportValue()); err != nil {
			return failedFuture[Response](fmt.Errorf("failed to set response type: %w", err))
		}
	}

	body := req.Content()
	if req.Method() == GET {
		body = EmptyBody{}
	}
	if err := body.dispatch(t); err != nil {
		return failedFuture[Response](fmt.Errorf("failed to send %s %s: %w", req.Method(), req.URL(), err))
	}

	return f
}

// Send executes req with DefaultClient and waits for the response.
func Send(ctx context.Context, req Request) (Response, error) {
	return DefaultClient.Send(req).Await(ctx)
}
