// Package log configures the module loggers on top of op/go-logging.
//
// Library packages obtain a logger with NewLoggerForModule and stay quiet
// (WARNING and above) until an application calls SetUp.
package log

import (
	"io"

	"github.com/op/go-logging"
)

// Level defines all available log levels for log messages.
type Level int

// Level values.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	NOTICE
	INFO
	DEBUG
)

// Logger provides logging capabilities.
type Logger interface {
	Critical(format string, args ...interface{})
	Error(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Notice(format string, args ...interface{})
	Info(format string, args ...interface{})
	Debug(format string, args ...interface{})
}

// Log formats.
var (
	DefaultFormat = "%{color}%{time:15:04:05.000} %{module} %{level} %{color:reset} %{message}"
	CliFormat     = "%{color}%{level:.4s}%{color:reset} %{message}"
)

const defaultLevel = WARNING

var modules []string

// NewLoggerForModule creates a logger for the given module name.
func NewLoggerForModule(module string) Logger {
	modules = append(modules, module)
	logging.SetLevel(logging.Level(defaultLevel), module)
	return logging.MustGetLogger(module)
}

// SetUp routes every module logger to w with the given format and level.
func SetUp(w io.Writer, format string, level Level) {
	backend := logging.NewBackendFormatter(
		logging.NewLogBackend(w, "", 0),
		logging.MustStringFormatter(format),
	)
	leveled := logging.AddModuleLevel(backend)
	leveled.SetLevel(logging.Level(level), "")
	for _, m := range modules {
		leveled.SetLevel(logging.Level(level), m)
	}
	logging.SetBackend(leveled)
}

// LevelFromVerbosity maps a -v count to a level.
func LevelFromVerbosity(v int) Level {
	switch {
	case v <= 0:
		return WARNING
	case v == 1:
		return INFO
	default:
		return DEBUG
	}
}
