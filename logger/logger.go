// ABOUTME: Structured logging setup using log/slog.
// ABOUTME: Logs go to stderr so they never mix with command output.

package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init configures the default slog logger from environment variables.
// LOG_LEVEL: debug, info, warn, error (default: warn — this is a CLI,
// command output owns stdout)
// LOG_FORMAT: text, json (default: text)
func Init() {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}

	var handler slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
