// Package logging builds the zerolog loggers used for best-effort diagnostics.
//
// Nothing in flacarray relies on log output programmatically; failures are
// always reported through errs.Code. Logs only add context such as which
// stream failed and at what byte position.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// EnvLevel names the environment variable holding the default log level.
const EnvLevel = "FLACARRAY_LOG_LEVEL"

var (
	defaultOnce   sync.Once
	defaultLogger zerolog.Logger
)

// ParseLevel maps a level name to a zerolog level.
// Unknown names fall back to warn.
func ParseLevel(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off", "none":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

// New returns a logger writing human-readable lines to w at the given level.
// Colors are only used when w is a terminal.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05.000",
		NoColor:    !IsTerminal(w),
	}

	return zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Str("component", "flacarray").
		Logger()
}

// Default returns the process-wide diagnostic logger.
//
// It writes to stderr at the level named by FLACARRAY_LOG_LEVEL (warn when unset).
func Default() zerolog.Logger {
	defaultOnce.Do(func() {
		defaultLogger = New(os.Stderr, ParseLevel(os.Getenv(EnvLevel)))
	})

	return defaultLogger
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
