package config

import (
	"log/slog"
	"os"
)

// NewLogger returns a slog.Logger configured from GO_ENV, LOG_LEVEL and
// LOG_FORMAT. Production defaults to the JSON handler, other environments
// to text; LOG_FORMAT=json or LOG_FORMAT=text overrides the default.
// LOG_LEVEL may be: debug, info, warn, error (default: info).
func NewLogger() *slog.Logger {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}
	level := slog.LevelInfo
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		switch s {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		if env == "production" {
			format = "json"
		} else {
			format = "text"
		}
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
