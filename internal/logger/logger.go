// Package logger builds the zerolog logger shared by the server, the
// migration tool and the queue consumer.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger for the given environment.  Development gets a
// human-readable console writer; every other environment logs JSON lines
// to stdout.  An unknown level falls back to info.
func New(env, level string) zerolog.Logger {
	var w io.Writer = os.Stdout
	if env == "dev" || env == "development" || env == "local" {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, level).With().Str("env", env).Logger()
}

// NewWithWriter is New without the environment switch.  Tests use it to
// capture output.
func NewWithWriter(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "techno-hub").Logger()
}
