// Package logger builds the structured logger and carries it through a context.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultTimeFormat = "15:04:05"

type Config struct {
	Level      string
	JSON       bool
	Output     io.Writer
	TimeFormat string
}

func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Output:     os.Stderr,
		TimeFormat: DefaultTimeFormat,
	}
}

// New builds a logger. Unknown levels fall back to info.
func New(cfg Config) *log.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = DefaultTimeFormat
	}

	logger := log.NewWithOptions(cfg.Output, log.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		Level:           ParseLevel(cfg.Level),
	})

	if cfg.JSON {
		logger.SetFormatter(log.JSONFormatter)
	} else {
		logger.SetFormatter(log.TextFormatter)
	}

	return logger
}

func ParseLevel(level string) log.Level {
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return parsed
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *log.Logger) context.Context {
	return log.WithContext(ctx, logger)
}

// FromContext returns the logger stored in ctx, or a logger that discards
// everything when there is none.
func FromContext(ctx context.Context) *log.Logger {
	if logger, ok := ctx.Value(log.ContextKey).(*log.Logger); ok && logger != nil {
		return logger
	}
	return Discard()
}

func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
