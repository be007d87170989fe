package cmd

import (
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/abdul-hamid-achik/xhrkit/packages/output"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Send a GET and print status and text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, http.GET, args[0], func(c *http.Client) *http.Future[http.Reply] {
			return c.Get(args[0])
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put <url>",
	Short: "Send a PUT without a body (use send -X PUT -d for a payload)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, http.PUT, args[0], func(c *http.Client) *http.Future[http.Reply] {
			return c.Put(args[0])
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <url>",
	Short: "Send a DELETE without a body",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, http.DELETE, args[0], func(c *http.Client) *http.Future[http.Reply] {
			return c.Delete(args[0])
		})
	},
}

var postCmd = &cobra.Command{
	Use:   "post <url> <data>",
	Short: "Send a POST with a text body",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, http.POST, args[0], func(c *http.Client) *http.Future[http.Reply] {
			return c.Post(args[0], args[1])
		})
	},
}

var patchCmd = &cobra.Command{
	Use:   "patch <url> <data>",
	Short: "Send a PATCH with a text body",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVerb(cmd, http.PATCH, args[0], func(c *http.Client) *http.Future[http.Reply] {
			return c.Patch(args[0], args[1])
		})
	},
}

func runVerb(cmd *cobra.Command, method http.Method, url string, call func(*http.Client) *http.Future[http.Reply]) error {
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
	reply, err := call(http.NewClientFromConfig(cfg)).Await(ctx)
	if err != nil {
		return withExitCode(ExitRequestError, "%w", err)
	}

	result := output.ReplyResult(method, url, reply, time.Since(start))
	if err := formatter.FormatResult(result); err != nil {
		return err
	}
	return checkStatus(result.Response)
}
