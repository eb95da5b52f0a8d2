// Package logger builds the process-wide slog logger and small attribute helpers.
package logger

import (
	"log/slog"
	"os"
	"strings"

	"go.uber.org/fx"
)

var Module = fx.Module("logger",
	fx.Provide(NewLogger),
)

// NewLogger returns a JSON logger writing to stderr. The level comes from
// LOG_LEVEL (debug, info, warn, error) and defaults to info.
func NewLogger() *slog.Logger {
	return New(os.Getenv("LOG_LEVEL"))
}

// New returns a JSON logger at the named level.
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Scope tags log lines with the component that emitted them.
func Scope(name string) slog.Attr {
	return slog.String("scope", name)
}

// Error wraps an error as a log attribute.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}
