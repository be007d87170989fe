package cmd

import "fmt"

// Exit codes for xhrkit CLI
const (
	// ExitSuccess indicates the request completed
	ExitSuccess = 0

	// ExitHTTPError indicates a 4xx/5xx status while --fail is set
	ExitHTTPError = 1

	// ExitRequestError indicates the request could not be started
	ExitRequestError = 2

	// ExitConfigError indicates a configuration error
	ExitConfigError = 3

	// ExitNetworkError indicates a network/connection error while --fail is set
	ExitNetworkError = 4

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)

// exitError carries an exit code out of a command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, format string, args ...any) error {
	return &exitError{code: code, err: fmt.Errorf(format, args...)}
}
