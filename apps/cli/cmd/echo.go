package cmd

import (
	"fmt"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/mock"
	"github.com/spf13/cobra"
)

var (
	echoPortFlag  int
	echoDelayFlag string
)

var echoCmd = &cobra.Command{
	Use:   "echo",
	Short: "Start the echo server",
	Long: `Start an HTTP server for trying requests out.

Routes:
  *   /echo            reflects the request body and Content-Type
  GET /status/{code}   answers with the status code and its reason phrase
  *   /headers         returns the request headers as JSON
  GET /redirect/{n}    redirects n times, then lands on /echo

Examples:
  xhrkit echo
  xhrkit echo --port 8080 --delay 100ms -v`,
	Args: cobra.NoArgs,
	RunE: echoCommand,
}

func init() {
	echoCmd.Flags().IntVarP(&echoPortFlag, "port", "p", getEnvInt("XHRKIT_ECHO_PORT", 3000), "Port to listen on (env: XHRKIT_ECHO_PORT)")
	echoCmd.Flags().StringVar(&echoDelayFlag, "delay", "0", "Delay to add to all responses (e.g., 100ms, 1s)")
}

func echoCommand(cmd *cobra.Command, args []string) error {
	var delay time.Duration
	if echoDelayFlag != "0" {
		var err error
		delay, err = time.ParseDuration(echoDelayFlag)
		if err != nil {
			return withExitCode(ExitUsageError, "invalid delay value %q: %w", echoDelayFlag, err)
		}
	}

	server := mock.NewServer(
		mock.WithPort(echoPortFlag),
		mock.WithDelay(delay),
	)

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Fprintf(cmd.OutOrStdout(), "Echo server on http://localhost:%d (Ctrl+C to stop)\n", echoPortFlag)
	return server.StartWithContext(ctx)
}
