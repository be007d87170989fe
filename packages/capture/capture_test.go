package capture

import (
	"testing"

	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func jsonResponse(body string) http.Response {
	return http.Response{
		StatusCode:   200,
		ResponseText: body,
		Headers:      map[string]string{"content-type": "application/json", "x-trace": "abc"},
		Content:      http.TextContent{Text: body},
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		expr    string
		want    Capture
		wantErr bool
	}{
		{expr: "status", want: Capture{Source: SourceStatus}},
		{expr: "type", want: Capture{Source: SourceType}},
		{expr: "body", want: Capture{Source: SourceBody}},
		{expr: "body.user.name", want: Capture{Source: SourceBody, Path: "user.name"}},
		{expr: "header.Content-Type", want: Capture{Source: SourceHeader, Path: "Content-Type"}},
		{expr: "header.", wantErr: true},
		{expr: "cookie.x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseExpression(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractor_TextJSONBody(t *testing.T) {
	e := NewExtractor(jsonResponse(`{"user": {"id": 7, "tags": ["a", "b"]}}`))

	v, ok := e.Extract(Capture{Source: SourceBody, Path: "user.id"})
	require.True(t, ok)
	assert.Equal(t, float64(7), v)

	v, ok = e.Extract(Capture{Source: SourceBody, Path: "user.tags.1"})
	require.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = e.Extract(Capture{Source: SourceBody, Path: "user.missing"})
	assert.False(t, ok)
}

func TestExtractor_UnknownJSONContent(t *testing.T) {
	resp := http.Response{
		StatusCode:   200,
		ResponseType: "json",
		Content:      http.UnknownContent{Raw: gjson.Parse(`{"ok": true}`)},
	}
	e := NewExtractor(resp)

	v, ok := e.Extract(Capture{Source: SourceBody, Path: "ok"})
	require.True(t, ok)
	assert.Equal(t, true, v)

	v, ok = e.Extract(Capture{Source: SourceType})
	require.True(t, ok)
	assert.Equal(t, "json", v)
}

func TestExtractor_PlainBody(t *testing.T) {
	resp := http.Response{StatusCode: 404, ResponseText: "Not Found", Content: http.TextContent{Text: "Not Found"}}
	e := NewExtractor(resp)

	v, ok := e.Extract(Capture{Source: SourceBody})
	require.True(t, ok)
	assert.Equal(t, "Not Found", v)

	_, ok = e.Extract(Capture{Source: SourceBody, Path: "x"})
	assert.False(t, ok)

	v, ok = e.Extract(Capture{Source: SourceStatus})
	require.True(t, ok)
	assert.Equal(t, 404, v)
}

func TestExtractAll(t *testing.T) {
	results := ExtractAll(jsonResponse(`{"id": 1}`), map[string]string{
		"id":      "body.id",
		"trace":   "header.X-Trace",
		"missing": "header.x-none",
		"bad":     "nonsense",
	})

	assert.Equal(t, map[string]any{"id": float64(1), "trace": "abc"}, results)
}
