package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger builds the process logger: JSON to stdout, tagged with the
// service name so api and worker lines are distinguishable in a shared sink.
// Unknown level strings mean info.
func NewJSONLogger(service, level string) *slog.Logger {
	parsed := ParseLevel(level)
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     parsed,
		AddSource: parsed == slog.LevelDebug,
	})
	return slog.New(handler).With("service", service)
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		return slog.LevelInfo
	}
}
