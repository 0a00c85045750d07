// Package logging provides structured logging for taxsync using zerolog.
//
// Loggers are built from a Config and handed to the components that need
// them; the package-level default only backs code that has no logger of
// its own.
//
// Example usage:
//
//	logger := logging.NewLoggerFromConfig(&logging.Config{Level: "debug", Format: "console"})
//	logging.Component(&logger, "reconcile").Warn().
//	    Str("tax_id", "9999").
//	    Msg("authority is stale, missing replacement id")
package logging

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the fallback logger instance.
	defaultLogger = NewLoggerFromConfig(DefaultConfig())

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// New creates a new logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

// Component returns a child logger tagged with a component name.
func Component(logger *zerolog.Logger, name string) *zerolog.Logger {
	if logger == nil {
		logger = Default()
	}
	child := logger.With().Str("component", name).Logger()
	return &child
}
