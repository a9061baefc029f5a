// Package logging configures the application-wide zerolog logger.
//
// Logger construction is explicit and happens once in the CLI entry point;
// no package in this module configures logging as an import side effect.
// Components obtain loggers either from a context (FromContext) or by
// deriving a component logger (ComponentLogger).
package logging

import (
	"context"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	Level string

	// Format selects the output encoding: "console" or "json".
	Format string

	// File is an optional log file path. When set, log output goes to the
	// file instead of stderr.
	File string
}

// Result holds the constructed logger and any file handle that must be
// closed when the process exits.
type Result struct {
	Logger zerolog.Logger

	// UsingFile is true when log output was redirected to Config.File.
	UsingFile bool

	// FilePath is the resolved log file path when UsingFile is true.
	FilePath string

	file *os.File
}

// Close releases the log file handle, if any.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New constructs a logger from cfg. An unparseable level falls back to info.
// If the configured file cannot be opened, logging falls back to stderr and
// the returned Result reports UsingFile=false.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	result := Result{}

	if cfg.File != "" {
		f, openErr := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if openErr == nil {
			out = f
			result.UsingFile = true
			result.FilePath = cfg.File
			result.file = f
		}
	}

	if cfg.Format == "console" && !result.UsingFile {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	result.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return result
}

// ComponentLogger derives a logger tagged with a component name.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none was attached. This mirrors zerolog's own context integration.
func FromContext(ctx context.Context) zerolog.Logger {
	return *zerolog.Ctx(ctx)
}

// NewTraceID mints a ULID used to correlate all log lines of one CLI run.
func NewTraceID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0) //nolint:gosec // trace IDs are not security sensitive
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
