package config

import (
	"log/slog"
	"os"
	"strings"
)

// NewLogger returns the service logger configured from GO_ENV and LOG_LEVEL.
// Production emits JSON, anything else text. Every record carries the
// service name so aggregated logs stay attributable.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(os.Getenv("LOG_LEVEL"))}
	var handler slog.Handler
	if os.Getenv("GO_ENV") == "production" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "blitzweek")
}

// parseLogLevel maps a LOG_LEVEL value to a slog level, defaulting to info.
func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
