package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/xhrkit/packages/core/config"
	"github.com/abdul-hamid-achik/xhrkit/packages/http"
	"github.com/abdul-hamid-achik/xhrkit/packages/log"
	"github.com/abdul-hamid-achik/xhrkit/packages/output"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	verboseFlag  int
	noColorFlag  bool
	outputFlag   string
	includeFlag  bool
	quietFlag    bool
	failFlag     bool
	timeoutFlag  string
	insecureFlag bool
	proxyFlag    string
	noFollowFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "xhrkit",
	Short: "Describe an HTTP request, get a normalized response.",
	Long: `xhrkit builds HTTP requests as immutable values, sends them over an
XHR-style transport and prints the normalized response: status, lower-cased
headers and a text, blob or byte buffer body.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetUp(os.Stderr, log.CliFormat, log.LevelFromVerbosity(verboseFlag))
	},
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(ExitUsageError)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFlag, "config", getEnvString("XHRKIT_CONFIG", ""), "Path to config file (env: XHRKIT_CONFIG)")
	flags.CountVarP(&verboseFlag, "verbose", "v", "Verbose logging (-v, -vv for more detail)")
	flags.BoolVar(&noColorFlag, "no-color", getEnvBool("XHRKIT_NO_COLOR", false), "Disable colored output (env: XHRKIT_NO_COLOR)")
	flags.StringVarP(&outputFlag, "output", "o", getEnvString("XHRKIT_OUTPUT", "console"), "Output format: console, json (env: XHRKIT_OUTPUT)")
	flags.BoolVarP(&includeFlag, "include", "i", false, "Include response headers in the output")
	flags.BoolVarP(&quietFlag, "quiet", "q", false, "Print only the response body")
	flags.BoolVar(&failFlag, "fail", false, "Exit non-zero on network errors and 4xx/5xx statuses")
	flags.StringVar(&timeoutFlag, "timeout", getEnvString("XHRKIT_TIMEOUT", ""), "Transport timeout (e.g., 500ms, 10s) (env: XHRKIT_TIMEOUT)")
	flags.BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("XHRKIT_INSECURE", false), "Skip TLS certificate verification (env: XHRKIT_INSECURE)")
	flags.StringVar(&proxyFlag, "proxy", getEnvString("XHRKIT_PROXY", ""), "Proxy URL (env: XHRKIT_PROXY)")
	flags.BoolVar(&noFollowFlag, "no-follow", false, "Do not follow redirects")

	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(getCmd, postCmd, putCmd, patchCmd, deleteCmd)
	rootCmd.AddCommand(echoCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return nil, withExitCode(ExitConfigError, "failed to load config: %w", err)
	}

	overrides := &config.Config{Proxy: proxyFlag}
	if timeoutFlag != "" {
		d, err := time.ParseDuration(timeoutFlag)
		if err != nil {
			return nil, withExitCode(ExitUsageError, "invalid timeout value %q: %w", timeoutFlag, err)
		}
		overrides.Timeout = int(d.Milliseconds())
	}
	if insecureFlag {
		overrides.ValidateSSL = config.BoolPtr(false)
	}
	if noFollowFlag {
		overrides.FollowRedirects = config.BoolPtr(false)
	}
	if noColorFlag {
		overrides.NoColor = config.BoolPtr(true)
	}
	return cfg.Merge(overrides), nil
}

func newFormatter(cmd *cobra.Command, cfg *config.Config) (output.Formatter, error) {
	f, err := output.New(outputFlag, cmd.OutOrStdout(),
		output.WithHeaders(includeFlag),
		output.WithQuiet(quietFlag),
		output.WithNoColor(cfg.GetNoColor()),
	)
	if err != nil {
		return nil, withExitCode(ExitUsageError, "%w", err)
	}
	return f, nil
}

// checkStatus applies --fail to a finished request.
func checkStatus(resp http.Response) error {
	if !failFlag {
		return nil
	}
	if resp.IsNetworkError() {
		return withExitCode(ExitNetworkError, "network error")
	}
	if resp.StatusCode >= 400 {
		return withExitCode(ExitHTTPError, "request failed with status %d", resp.StatusCode)
	}
	return nil
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
