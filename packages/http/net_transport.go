package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"mime"
	"net/http"
	neturl "net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

const (
	// DefaultMaxRedirects is the maximum number of redirects to follow
	DefaultMaxRedirects = 10
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// forbiddenMethods cannot be used with Open.
var forbiddenMethods = map[string]bool{
	"CONNECT": true,
	"TRACE":   true,
	"TRACK":   true,
}

// normalizedMethods are upper-cased when passed in any casing.
var normalizedMethods = map[string]bool{
	"DELETE":  true,
	"GET":     true,
	"HEAD":    true,
	"OPTIONS": true,
	"PATCH":   true,
	"POST":    true,
	"PUT":     true,
}

var supportedResponseTypes = map[string]bool{
	"":            true,
	"text":        true,
	"arraybuffer": true,
	"blob":        true,
	"json":        true,
}

// NetworkOption configures the network stack shared by NetTransports.
type NetworkOption func(*network)

type network struct {
	timeout        time.Duration
	followRedirect bool
	maxRedirects   int
	validateSSL    bool
	proxyURL       string
	defaultHeaders []Header
}

func WithTimeout(d time.Duration) NetworkOption {
	return func(n *network) {
		n.timeout = d
	}
}

func WithFollowRedirects(follow bool) NetworkOption {
	return func(n *network) {
		n.followRedirect = follow
	}
}

func WithMaxRedirects(max int) NetworkOption {
	return func(n *network) {
		n.maxRedirects = max
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) NetworkOption {
	return func(n *network) {
		n.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) NetworkOption {
	return func(n *network) {
		n.proxyURL = proxyURL
	}
}

// WithDefaultHeader adds a header sent with every request that does not set
// the same name itself.
func WithDefaultHeader(name, value string) NetworkOption {
	return func(n *network) {
		n.defaultHeaders = append(n.defaultHeaders, Header{Name: name, Value: value})
	}
}

// NewNetTransportFactory returns a factory of NetTransports sharing one
// net/http client.
func NewNetTransportFactory(opts ...NetworkOption) TransportFactory {
	n := &network{
		followRedirect: true,
		maxRedirects:   DefaultMaxRedirects,
		validateSSL:    true,
	}
	for _, opt := range opts {
		opt(n)
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !n.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if n.proxyURL != "" {
		proxyURL, err := neturl.Parse(n.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if !n.followRedirect {
			return http.ErrUseLastResponse
		}
		if len(via) >= n.maxRedirects {
			return http.ErrUseLastResponse
		}
		return nil
	}

	client := &http.Client{
		Transport:     transport,
		Timeout:       n.timeout,
		CheckRedirect: redirectPolicy,
	}

	return func() (Transport, error) {
		return NewNetTransport(client, n.defaultHeaders...), nil
	}
}

// NetTransport is a Transport backed by a net/http client. State changes
// after Send are delivered from a single goroutine, in order.
type NetTransport struct {
	id             string
	client         *http.Client
	defaultHeaders []Header

	mu           sync.Mutex
	state        ReadyState
	sent         bool
	method       string
	url          string
	header       http.Header
	mimeOverride string
	responseType string
	onChange     func()

	status     int
	respHeader http.Header
	body       []byte
	text       *string
}

// NewNetTransport creates an unsent transport using client.
func NewNetTransport(client *http.Client, defaultHeaders ...Header) *NetTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &NetTransport{
		id:             uuid.NewString(),
		client:         client,
		defaultHeaders: defaultHeaders,
		header:         make(http.Header),
	}
}

// ID identifies the transport in logs.
func (t *NetTransport) ID() string {
	return t.id
}

func (t *NetTransport) Open(method, rawURL string) error {
	if !isToken(method) {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	upper := strings.ToUpper(method)
	if forbiddenMethods[upper] {
		return fmt.Errorf("%w: %s is not allowed", ErrInvalidMethod, upper)
	}
	if normalizedMethods[upper] {
		method = upper
	}

	if err := ValidateURL(rawURL); err != nil {
		return err
	}

	t.mu.Lock()
	t.state = Opened
	t.sent = false
	t.method = method
	t.url = rawURL
	t.header = make(http.Header)
	t.status = 0
	t.respHeader = nil
	t.body = nil
	t.text = nil
	t.mu.Unlock()

	logger.Debug("[%s] open %s %s", t.id, method, rawURL)
	t.notify()
	return nil
}

func (t *NetTransport) SetRequestHeader(name, value string) error {
	if !isToken(name) {
		return fmt.Errorf("invalid header name %q", name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Opened || t.sent {
		return fmt.Errorf("set request header: %w", ErrInvalidState)
	}
	t.header.Add(name, strings.TrimSpace(value))
	return nil
}

func (t *NetTransport) OverrideMimeType(mimeType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Loading || t.state == Done {
		return fmt.Errorf("override mime type: %w", ErrInvalidState)
	}
	if _, _, err := mime.ParseMediaType(mimeType); err != nil {
		mimeType = "application/octet-stream"
	}
	t.mimeOverride = mimeType
	return nil
}

// SetResponseType ignores values it does not support.
func (t *NetTransport) SetResponseType(responseType string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == Loading || t.state == Done {
		return fmt.Errorf("set response type: %w", ErrInvalidState)
	}
	if supportedResponseTypes[responseType] {
		t.responseType = responseType
	}
	return nil
}

func (t *NetTransport) OnReadyStateChange(fn func()) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

func (t *NetTransport) Send() error {
	return t.send(nil, "", false)
}

func (t *NetTransport) SendText(body string) error {
	return t.send([]byte(body), "text/plain;charset=UTF-8", true)
}

func (t *NetTransport) SendBlob(body *Blob) error {
	return t.send(body.data, body.Type(), true)
}

func (t *NetTransport) SendForm(body *FormData) error {
	data, contentType, err := body.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode form data: %w", err)
	}
	return t.send(data, contentType, true)
}

func (t *NetTransport) send(body []byte, contentType string, hasBody bool) error {
	t.mu.Lock()
	if t.state != Opened || t.sent {
		t.mu.Unlock()
		return fmt.Errorf("send: %w", ErrInvalidState)
	}
	t.sent = true
	method, url := t.method, t.url

	if method == "GET" || method == "HEAD" {
		hasBody = false
	}

	var reader io.Reader
	if hasBody {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	if err != nil {
		t.sent = false
		t.mu.Unlock()
		return fmt.Errorf("failed to create request: %w", err)
	}

	for _, h := range t.defaultHeaders {
		if _, ok := t.header[http.CanonicalHeaderKey(h.Name)]; !ok {
			req.Header.Add(h.Name, h.Value)
		}
	}
	for k, vs := range t.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if hasBody && contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	t.mu.Unlock()

	logger.Debug("[%s] send %s %s (%d bytes)", t.id, method, url, len(body))
	go t.run(req)
	return nil
}

func (t *NetTransport) run(req *http.Request) {
	start := time.Now()

	resp, err := t.client.Do(req)
	if err != nil {
		t.fail(err)
		return
	}
	defer resp.Body.Close()

	t.mu.Lock()
	t.status = resp.StatusCode
	t.respHeader = resp.Header
	t.state = HeadersReceived
	t.mu.Unlock()
	t.notify()

	t.setState(Loading)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.fail(err)
		return
	}

	t.mu.Lock()
	t.body = body
	t.state = Done
	t.mu.Unlock()

	logger.Debug("[%s] done %d in %s", t.id, resp.StatusCode, time.Since(start))
	t.notify()
}

// fail finishes the exchange as a network error.
func (t *NetTransport) fail(err error) {
	logger.Warning("[%s] network error: %v", t.id, err)

	t.mu.Lock()
	t.status = 0
	t.respHeader = nil
	t.body = nil
	t.state = Done
	t.mu.Unlock()
	t.notify()
}

func (t *NetTransport) setState(s ReadyState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	t.notify()
}

func (t *NetTransport) notify() {
	t.mu.Lock()
	fn := t.onChange
	t.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (t *NetTransport) ReadyState() ReadyState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *NetTransport) Status() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state < HeadersReceived {
		return 0
	}
	return t.status
}

func (t *NetTransport) ResponseType() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.responseType
}

// ResponseText is empty unless the response type is "" or "text".
func (t *NetTransport) ResponseText() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.responseType != "" && t.responseType != "text" {
		return ""
	}
	if t.state != Done {
		return ""
	}
	return t.textLocked()
}

func (t *NetTransport) textLocked() string {
	if t.text == nil {
		text := decodeText(t.body, charsetOf(t.finalMimeTypeLocked()))
		t.text = &text
	}
	return *t.text
}

// Response returns the body decoded for the response type: string, ArrayBuffer,
// *Blob or gjson.Result. It is nil until Done, and nil for invalid JSON.
func (t *NetTransport) Response() any {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != Done {
		return nil
	}

	switch t.responseType {
	case "arraybuffer":
		buf := make(ArrayBuffer, len(t.body))
		copy(buf, t.body)
		return buf
	case "blob":
		return NewBlob([]any{t.body}, t.finalMimeTypeLocked())
	case "json":
		if t.status == 0 || !gjson.ValidBytes(t.body) {
			return nil
		}
		return gjson.ParseBytes(t.body)
	default:
		return t.textLocked()
	}
}

func (t *NetTransport) finalMimeTypeLocked() string {
	if t.mimeOverride != "" {
		return t.mimeOverride
	}
	if t.respHeader == nil {
		return ""
	}
	return t.respHeader.Get("Content-Type")
}

// AllResponseHeaders renders the response headers as lower-cased
// "name: value" lines, sorted by name and terminated by CRLF.
func (t *NetTransport) AllResponseHeaders() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state < HeadersReceived || t.respHeader == nil {
		return ""
	}

	names := make([]string, 0, len(t.respHeader))
	for k := range t.respHeader {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, k := range names {
		b.WriteString(strings.ToLower(k))
		b.WriteString(": ")
		b.WriteString(strings.Join(t.respHeader[k], ", "))
		b.WriteString("\r\n")
	}
	return b.String()
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported URL scheme: %s (only http and https are allowed)", ErrInvalidURL, u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("%w: URL must have a host", ErrInvalidURL)
	}

	return nil
}

func isToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > 0x7e || r <= 0x20 || strings.ContainsRune("\"(),/:;<=>?@[\\]{}", r) {
			return false
		}
	}
	return true
}
