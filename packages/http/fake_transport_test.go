package http

import "sync"

// sendCall records what reached the transport's send step.
type sendCall struct {
	kind string // "none", "text", "blob", "form"
	text string
	blob *Blob
	form *FormData
}

// fakeTransport completes synchronously inside Send with canned values.
type fakeTransport struct {
	mu sync.Mutex

	openErr error
	sendErr error

	method       string
	url          string
	headers      []Header
	mimeType     string
	responseType string
	sends        []sendCall
	states       []ReadyState

	state    ReadyState
	onChange func()

	// canned response
	status          int
	text            string
	reportedType    string // overrides responseType when set
	raw             any
	rawHeaders      string
	extraDoneEvents int
}

func (f *fakeTransport) Open(method, url string) error {
	if f.openErr != nil {
		return f.openErr
	}
	f.method, f.url = method, url
	f.transition(Opened)
	return nil
}

func (f *fakeTransport) SetRequestHeader(name, value string) error {
	f.headers = append(f.headers, Header{Name: name, Value: value})
	return nil
}

func (f *fakeTransport) OverrideMimeType(mimeType string) error {
	f.mimeType = mimeType
	return nil
}

func (f *fakeTransport) SetResponseType(responseType string) error {
	f.responseType = responseType
	return nil
}

func (f *fakeTransport) OnReadyStateChange(fn func()) {
	f.onChange = fn
}

func (f *fakeTransport) Send() error { return f.record(sendCall{kind: "none"}) }

func (f *fakeTransport) SendText(body string) error {
	return f.record(sendCall{kind: "text", text: body})
}

func (f *fakeTransport) SendBlob(body *Blob) error {
	return f.record(sendCall{kind: "blob", blob: body})
}

func (f *fakeTransport) SendForm(body *FormData) error {
	return f.record(sendCall{kind: "form", form: body})
}

func (f *fakeTransport) record(c sendCall) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sends = append(f.sends, c)
	f.transition(HeadersReceived)
	f.transition(Loading)
	f.transition(Done)
	for i := 0; i < f.extraDoneEvents; i++ {
		f.transition(Done)
	}
	return nil
}

func (f *fakeTransport) transition(s ReadyState) {
	f.mu.Lock()
	f.state = s
	f.states = append(f.states, s)
	fn := f.onChange
	f.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (f *fakeTransport) ReadyState() ReadyState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeTransport) Status() int { return f.status }

func (f *fakeTransport) ResponseText() string { return f.text }

func (f *fakeTransport) ResponseType() string {
	if f.reportedType != "" {
		return f.reportedType
	}
	return f.responseType
}

func (f *fakeTransport) Response() any { return f.raw }

func (f *fakeTransport) AllResponseHeaders() string { return f.rawHeaders }

func clientWith(t Transport) *Client {
	return NewClient(WithTransportFactory(func() (Transport, error) {
		return t, nil
	}))
}
