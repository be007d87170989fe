package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/capture"
	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/abdul-hamid-achik/xhrkit/packages/output"
	"github.com/spf13/cobra"
)

var (
	methodFlag       string
	headerFlags      []string
	dataFlag         string
	dataSetFlag      bool
	dataFileFlag     string
	formFlags        []string
	mimeTypeFlag     string
	responseTypeFlag string
	captureFlags     []string
)

var sendCmd = &cobra.Command{
	Use:   "send <url>",
	Short: "Build and send a request",
	Long: `Build a request from flags and print the normalized response.

The body is one of: --data (text), --data-file (binary blob) or
--form (multipart). GET requests never carry a body.

Examples:
  xhrkit send https://api.example.com/users
  xhrkit send https://api.example.com/users -X POST -H 'Content-Type: application/json' -d '{"name":"ada"}'
  xhrkit send https://api.example.com/upload -X PUT --data-file ./photo.png --response-type blob
  xhrkit send https://api.example.com/form -X POST -F name=ada -F avatar=@./ada.png
  xhrkit send https://api.example.com/users/1 --capture id=body.id --capture type=header.content-type`,
	Args: cobra.ExactArgs(1),
	RunE: sendCommand,
}

func init() {
	sendCmd.Flags().StringVarP(&methodFlag, "method", "X", "GET", "Request method")
	sendCmd.Flags().StringArrayVarP(&headerFlags, "header", "H", nil, "Request header 'Name: value' (repeatable, order preserved)")
	sendCmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Text body")
	sendCmd.Flags().StringVar(&dataFileFlag, "data-file", "", "Send a file as a binary body")
	sendCmd.Flags().StringArrayVarP(&formFlags, "form", "F", nil, "Multipart field name=value or name=@path (repeatable)")
	sendCmd.Flags().StringVar(&mimeTypeFlag, "mime-type", "", "Override the response MIME type")
	sendCmd.Flags().StringVar(&responseTypeFlag, "response-type", "", "Response decoding: text, blob, arraybuffer")
	sendCmd.Flags().StringArrayVar(&captureFlags, "capture", nil, "Print name=expression captures instead of the body (status, type, header.<name>, body, body.<path>)")
}

func sendCommand(cmd *cobra.Command, args []string) error {
	dataSetFlag = cmd.Flags().Changed("data")

	req, err := buildRequest(args[0])
	if err != nil {
		return withExitCode(ExitUsageError, "%w", err)
	}

	captures, err := parseCaptures(captureFlags)
	if err != nil {
		return withExitCode(ExitUsageError, "%w", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	formatter, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	resp, err := http.NewClientFromConfig(cfg).Send(req).Await(ctx)
	if err != nil {
		return withExitCode(ExitRequestError, "%w", err)
	}

	result := output.Result{
		Method:   req.Method(),
		URL:      req.URL(),
		Response: resp,
		Duration: time.Since(start),
	}
	if len(captures) > 0 {
		result.Captures = capture.ExtractAll(resp, captures)
	}

	if err := formatter.FormatResult(result); err != nil {
		return err
	}
	return checkStatus(resp)
}

// buildRequest turns the send flags into a request value.
func buildRequest(url string) (http.Request, error) {
	steps := []http.Transformation{
		func(r http.Request) http.Request { return r.WithMethod(http.Method(strings.ToUpper(methodFlag))) },
	}

	for _, raw := range headerFlags {
		h, err := parseHeader(raw)
		if err != nil {
			return http.Request{}, err
		}
		steps = append(steps, func(r http.Request) http.Request { return r.WithHeader(h) })
	}

	if mimeTypeFlag != "" {
		steps = append(steps, func(r http.Request) http.Request { return r.WithMimeType(mimeTypeFlag) })
	}

	if responseTypeFlag != "" {
		rt, err := parseResponseType(responseTypeFlag)
		if err != nil {
			return http.Request{}, err
		}
		steps = append(steps, func(r http.Request) http.Request { return r.WithResponseType(rt) })
	}

	body, err := buildBody()
	if err != nil {
		return http.Request{}, err
	}
	steps = append(steps, func(r http.Request) http.Request { return r.WithContent(body) })

	return http.Build(url, steps...), nil
}

func buildBody() (http.Body, error) {
	sources := 0
	if dataSetFlag {
		sources++
	}
	if dataFileFlag != "" {
		sources++
	}
	if len(formFlags) > 0 {
		sources++
	}
	if sources > 1 {
		return nil, fmt.Errorf("--data, --data-file and --form are mutually exclusive")
	}

	switch {
	case dataSetFlag:
		return http.Text(dataFlag), nil
	case dataFileFlag != "":
		file, err := http.OpenFile(dataFileFlag)
		if err != nil {
			return nil, err
		}
		return http.Binary(file.Blob), nil
	case len(formFlags) > 0:
		form, err := parseForm(formFlags)
		if err != nil {
			return nil, err
		}
		return http.Form(form), nil
	}
	return http.EmptyBody{}, nil
}

func parseHeader(raw string) (http.Header, error) {
	name, value, ok := strings.Cut(raw, ":")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return http.Header{}, fmt.Errorf("invalid header %q (expected 'Name: value')", raw)
	}
	return http.CustomHeader(name, strings.TrimSpace(value)), nil
}

func parseResponseType(raw string) (http.ResponseType, error) {
	switch strings.ToLower(raw) {
	case "text":
		return http.ResponseTypeText, nil
	case "blob":
		return http.ResponseTypeBlob, nil
	case "arraybuffer":
		return http.ResponseTypeArrayBuffer, nil
	}
	return 0, fmt.Errorf("invalid response type %q (use text, blob or arraybuffer)", raw)
}

func parseForm(fields []string) (*http.FormData, error) {
	form := http.NewFormData()
	for _, field := range fields {
		name, value, ok := strings.Cut(field, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid form field %q (expected name=value or name=@path)", field)
		}
		if path, isFile := strings.CutPrefix(value, "@"); isFile {
			file, err := http.OpenFile(path)
			if err != nil {
				return nil, err
			}
			form.AppendFile(name, file)
			continue
		}
		form.Append(name, value)
	}
	return form, nil
}

func parseCaptures(raw []string) (map[string]string, error) {
	captures := make(map[string]string, len(raw))
	for _, c := range raw {
		name, expr, ok := strings.Cut(c, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid capture %q (expected name=expression)", c)
		}
		if _, err := capture.ParseExpression(expr); err != nil {
			return nil, err
		}
		captures[name] = expr
	}
	return captures, nil
}

// signalContext is cancelled on SIGINT/SIGTERM. Cancelling only stops
// waiting; the request itself is not aborted.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
