package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/fatih/color"
)

// formatValue formats a value for display, truncating large values
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

type ConsoleFormatter struct {
	writer         io.Writer
	includeHeaders bool
	quiet          bool
	noColor        bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

// WithHeaders prints response headers before the body.
func WithHeaders(include bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.includeHeaders = include
	}
}

// WithQuiet prints only the body.
func WithQuiet(q bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.quiet = q
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(result Result) error {
	resp := result.Response
	body := resp.Body()

	if f.quiet {
		return f.writeBody(body)
	}

	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(f.writer, "%s %s\n", bold(result.Method), result.URL)
	fmt.Fprintf(f.writer, "%s %s %s\n",
		statusColor(resp.StatusCode)(statusLabel(resp)),
		dim(fmt.Sprintf("[%s, %d bytes]", contentKind(resp.Content), len(body))),
		dim(result.Duration.Round(time.Millisecond).String()),
	)

	if f.includeHeaders && len(resp.Headers) > 0 {
		names := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(f.writer, "%s: %s\n", cyan(k), resp.Headers[k])
		}
	}

	if len(result.Captures) > 0 {
		names := make([]string, 0, len(result.Captures))
		for k := range result.Captures {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(f.writer, "%s = %s\n", cyan(k), formatValue(result.Captures[k], 120))
		}
		return nil
	}

	if len(body) > 0 {
		fmt.Fprintln(f.writer)
		return f.writeBody(body)
	}
	return nil
}

func (f *ConsoleFormatter) writeBody(body []byte) error {
	if !utf8.Valid(body) {
		_, err := fmt.Fprintf(f.writer, "<%d bytes of binary data>\n", len(body))
		return err
	}
	if _, err := f.writer.Write(body); err != nil {
		return err
	}
	if len(body) > 0 && body[len(body)-1] != '\n' {
		_, err := fmt.Fprintln(f.writer)
		return err
	}
	return nil
}

func statusLabel(resp http.Response) string {
	if resp.IsNetworkError() {
		return "network error"
	}
	return fmt.Sprintf("%d", resp.StatusCode)
}

func statusColor(code int) func(a ...interface{}) string {
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	case code >= 300 && code < 400:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}
