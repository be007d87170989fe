package http

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/core/config"
	"github.com/abdul-hamid-achik/xhrkit/packages/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func await[T any](t *testing.T, f *Future[T]) (T, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return f.Await(ctx)
}

func TestSend_ConfiguresTransportInOrder(t *testing.T) {
	ft := &fakeTransport{status: 200, text: "ok"}
	req := NewRequest("http://example.com/a").
		WithMethod(POST).
		WithHeaders(CustomHeader("X-A", "1"), CustomHeader("X-A", "2")).
		WithMimeType("text/plain; charset=utf-8").
		WithResponseType(ResponseTypeArrayBuffer).
		WithContent(Text("payload"))

	_, err := await(t, clientWith(ft).Send(req))
	require.NoError(t, err)

	assert.Equal(t, "POST", ft.method)
	assert.Equal(t, "http://example.com/a", ft.url)
	assert.Equal(t, []Header{{Name: "X-A", Value: "1"}, {Name: "X-A", Value: "2"}}, ft.headers)
	assert.Equal(t, "text/plain; charset=utf-8", ft.mimeType)
	assert.Equal(t, "arraybuffer", ft.responseType)
	assert.Equal(t, []sendCall{{kind: "text", text: "payload"}}, ft.sends)
}

func TestSend_GETNeverSendsBody(t *testing.T) {
	bodies := []Body{
		EmptyBody{},
		Text("ignored"),
		Binary(BlobFromString("ignored", "")),
		Form(NewFormData().Append("k", "v")),
	}

	for _, body := range bodies {
		ft := &fakeTransport{status: 200}
		_, err := await(t, clientWith(ft).Send(NewRequest("http://example.com").WithContent(body)))
		require.NoError(t, err)
		assert.Equal(t, []sendCall{{kind: "none"}}, ft.sends)
	}
}

func TestSend_BodyDispatch(t *testing.T) {
	blob := BlobFromString("bin", "application/octet-stream")
	form := NewFormData().Append("a", "b")

	tests := []struct {
		name string
		body Body
		want sendCall
	}{
		{"empty", EmptyBody{}, sendCall{kind: "none"}},
		{"text", Text("hello"), sendCall{kind: "text", text: "hello"}},
		{"empty text", Text(""), sendCall{kind: "text", text: ""}},
		{"binary", Binary(blob), sendCall{kind: "blob", blob: blob}},
		{"form", Form(form), sendCall{kind: "form", form: form}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft := &fakeTransport{status: 200}
			req := NewRequest("http://example.com").WithMethod(PUT).WithContent(tt.body)
			_, err := await(t, clientWith(ft).Send(req))
			require.NoError(t, err)
			require.Len(t, ft.sends, 1)
			assert.Equal(t, tt.want.kind, ft.sends[0].kind)
			assert.Equal(t, tt.want.text, ft.sends[0].text)
			assert.Same(t, tt.want.blob, ft.sends[0].blob)
			assert.Same(t, tt.want.form, ft.sends[0].form)
		})
	}
}

func TestSend_DecodesByReportedType(t *testing.T) {
	blob := BlobFromString("b", "image/png")
	json := gjson.Parse(`{"a":1}`)

	tests := []struct {
		name     string
		ft       *fakeTransport
		wantText string
		want     ResponseContent
	}{
		{
			name:     "default is text",
			ft:       &fakeTransport{status: 200, text: "hi"},
			wantText: "hi",
			want:     TextContent{Text: "hi"},
		},
		{
			name:     "text",
			ft:       &fakeTransport{status: 200, text: "hi", reportedType: "text"},
			wantText: "hi",
			want:     TextContent{Text: "hi"},
		},
		{
			name: "arraybuffer",
			ft:   &fakeTransport{status: 200, text: "not exposed", reportedType: "arraybuffer", raw: ArrayBuffer("xyz")},
			want: ArrayBufferContent{Data: ArrayBuffer("xyz")},
		},
		{
			name: "blob",
			ft:   &fakeTransport{status: 200, reportedType: "blob", raw: blob},
			want: BlobContent{Blob: blob},
		},
		{
			name: "unrecognized",
			ft:   &fakeTransport{status: 200, reportedType: "json", raw: json},
			want: UnknownContent{Raw: json},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := await(t, clientWith(tt.ft).Send(NewRequest("http://example.com")))
			require.NoError(t, err)
			assert.Equal(t, tt.wantText, resp.ResponseText)
			assert.Equal(t, tt.want, resp.Content)
			assert.Equal(t, tt.ft.ResponseType(), resp.ResponseType)
		})
	}
}

func TestSend_ReportedTypeWinsOverRequested(t *testing.T) {
	ft := &fakeTransport{status: 200, text: "plain", reportedType: "text"}
	req := NewRequest("http://example.com").WithResponseType(ResponseTypeBlob)

	resp, err := await(t, clientWith(ft).Send(req))
	require.NoError(t, err)
	assert.Equal(t, "blob", ft.responseType)
	assert.Equal(t, TextContent{Text: "plain"}, resp.Content)
}

func TestSend_ResolvesOnceOnDone(t *testing.T) {
	ft := &fakeTransport{status: 200, text: "first", extraDoneEvents: 2}

	f := clientWith(ft).Send(NewRequest("http://example.com"))
	resp, err := await(t, f)
	require.NoError(t, err)
	assert.Equal(t, "first", resp.ResponseText)
	assert.Equal(t, []ReadyState{Opened, HeadersReceived, Loading, Done, Done, Done}, ft.states)

	_, ok, _ := f.Result()
	assert.True(t, ok)
}

func TestSend_HeadersParsed(t *testing.T) {
	ft := &fakeTransport{status: 404, text: "Not Found", rawHeaders: "Content-Type: text/plain\r\nX-Trace: a:b\r\n"}

	resp, err := await(t, clientWith(ft).Send(NewRequest("http://example.com")))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, map[string]string{"content-type": "text/plain", "x-trace": "a:b"}, resp.Headers)
	assert.Equal(t, "text/plain", resp.Header("Content-Type"))
}

func TestSend_OpenAndConstructionFailuresPropagate(t *testing.T) {
	openErr := errors.New("bad method")
	_, err := await(t, clientWith(&fakeTransport{openErr: openErr}).Send(NewRequest("http://example.com")))
	assert.ErrorIs(t, err, openErr)

	factoryErr := errors.New("no transport")
	c := NewClient(WithTransportFactory(func() (Transport, error) { return nil, factoryErr }))
	_, err = await(t, c.Send(NewRequest("http://example.com")))
	assert.ErrorIs(t, err, factoryErr)

	sendErr := errors.New("already sent")
	_, err = await(t, clientWith(&fakeTransport{sendErr: sendErr}).Send(NewRequest("http://example.com")))
	assert.ErrorIs(t, err, sendErr)
}

func TestSend_InvalidURLIsAnError(t *testing.T) {
	_, err := await(t, NewClient().Send(NewRequest("ftp://example.com")))
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestSend_EchoRoundTripText(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	for _, body := range []string{"hello world", ""} {
		req := NewRequest(server.URL + "/echo").WithMethod(POST).WithContent(Text(body))
		resp, err := await(t, NewClient().Send(req))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, body, resp.ResponseText)
		assert.Equal(t, TextContent{Text: body}, resp.Content)
	}
}

func TestSend_EchoRoundTripBlob(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	req := NewRequest(server.URL + "/echo").
		WithMethod(POST).
		WithResponseType(ResponseTypeBlob).
		WithContent(Binary(NewBlob([]any{"hello!"}, "")))

	resp, err := await(t, NewClient().Send(req))
	require.NoError(t, err)
	assert.Equal(t, "blob", resp.ResponseType)
	assert.Equal(t, "", resp.ResponseText)
	assert.Equal(t, "application/octet-stream", resp.Headers["content-type"])

	content, ok := resp.Content.(BlobContent)
	require.True(t, ok)
	text, err := await(t, ReadBlobAsText(content.Blob))
	require.NoError(t, err)
	assert.Equal(t, "hello!", text)
}

func TestSend_EchoRoundTripArrayBuffer(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	payload := []byte{0x00, 0x01, 0xfe, 0xff}
	req := NewRequest(server.URL + "/echo").
		WithMethod(PUT).
		WithResponseType(ResponseTypeArrayBuffer).
		WithContent(Binary(NewBlob([]any{payload}, "application/x-raw")))

	resp, err := await(t, NewClient().Send(req))
	require.NoError(t, err)
	assert.Equal(t, ArrayBufferContent{Data: ArrayBuffer(payload)}, resp.Content)
	assert.Equal(t, "application/x-raw", resp.Header("Content-Type"))
}

func TestSend_EchoForm(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	form := NewFormData().
		Append("name", "xhrkit").
		AppendBlob("file", BlobFromString("file body", "text/plain"), "notes.txt")
	req := NewRequest(server.URL + "/echo").WithMethod(POST).WithContent(Form(form))

	resp, err := await(t, NewClient().Send(req))
	require.NoError(t, err)
	assert.Contains(t, resp.Header("content-type"), "multipart/form-data; boundary=")
	assert.Contains(t, resp.ResponseText, `name="name"`)
	assert.Contains(t, resp.ResponseText, "xhrkit")
	assert.Contains(t, resp.ResponseText, `filename="notes.txt"`)
	assert.Contains(t, resp.ResponseText, "file body")
}

func TestSend_NotFoundIsAResponse(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	resp, err := Send(context.Background(), NewRequest(server.URL+"/does-not-exist"))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Not Found", resp.ResponseText)
	assert.True(t, resp.IsClientError())
}

func TestSend_NetworkErrorIsAResponse(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	url := server.URL + "/echo"
	server.Close()

	resp, err := await(t, NewClient().Send(NewRequest(url)))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.StatusCode)
	assert.True(t, resp.IsNetworkError())
	assert.Empty(t, resp.Headers)
	assert.Equal(t, TextContent{Text: ""}, resp.Content)
}

func TestSend_TemplateReuse(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	template := NewRequest(server.URL + "/headers").WithHeader(CustomHeader("X-Shared", "1"))
	client := NewClient()

	a, err := await(t, client.Send(template.WithHeader(CustomHeader("X-Only", "a"))))
	require.NoError(t, err)
	b, err := await(t, client.Send(template))
	require.NoError(t, err)

	assert.Contains(t, a.ResponseText, `"x-only":"a"`)
	assert.Contains(t, a.ResponseText, `"x-shared":"1"`)
	assert.NotContains(t, b.ResponseText, "x-only")
}

func TestNewClientFromConfig(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.FollowRedirects = config.BoolPtr(false)
	cfg.Headers = map[string]string{"X-Default": "yes"}
	client := NewClientFromConfig(cfg)

	resp, err := await(t, client.Send(NewRequest(server.URL+"/redirect/1")))
	require.NoError(t, err)
	assert.Equal(t, 302, resp.StatusCode)
	assert.Equal(t, "/echo", resp.Header("location"))

	resp, err = await(t, client.Send(NewRequest(server.URL+"/headers")))
	require.NoError(t, err)
	assert.Contains(t, resp.ResponseText, `"x-default":"yes"`)

	resp, err = await(t, client.Send(NewRequest(server.URL+"/headers").WithHeader(CustomHeader("X-Default", "override"))))
	require.NoError(t, err)
	assert.Contains(t, resp.ResponseText, `"x-default":"override"`)
}

func TestSend_FollowsRedirectsNatively(t *testing.T) {
	server := httptest.NewServer(mock.NewServer())
	defer server.Close()

	resp, err := await(t, NewClient().Send(NewRequest(server.URL+"/redirect/3")))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "GET", resp.Header("x-echo-method"))
}

func TestFuture_AwaitHonoursContext(t *testing.T) {
	f := newFuture[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Await(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.True(t, f.resolve(1, nil))
	assert.False(t, f.resolve(2, nil))

	v, err := f.Await(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}
