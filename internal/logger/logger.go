// Package logger builds the slog loggers used across the application.
// Services never construct their own handlers; they receive a *slog.Logger
// and narrow it with With().
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects handler format and verbosity.
type Config struct {
	Level  slog.Level
	Format string // "text" or "json"

	// Output overrides the destination, stderr when nil.
	Output io.Writer
}

// NewLogger builds a logger from cfg. Source locations are attached only at
// debug verbosity, where the file:line overhead pays for itself.
func NewLogger(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level <= slog.LevelDebug,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// DefaultConfig reads the level from SARGAM_LOG_LEVEL (DEBUG, INFO, WARN,
// WARNING or ERROR) and falls back to INFO.
func DefaultConfig() Config {
	return Config{
		Level:  parseLevel(os.Getenv("SARGAM_LOG_LEVEL"), slog.LevelInfo),
		Format: "text",
	}
}

// NewTestLogger returns a quiet logger for tests: WARN and up on stdout.
// Set TEST_DEBUG to see everything.
func NewTestLogger() *slog.Logger {
	level := slog.LevelWarn
	if os.Getenv("TEST_DEBUG") != "" {
		level = slog.LevelDebug
	}
	return NewLogger(Config{Level: level, Output: os.Stdout})
}

func parseLevel(s string, fallback slog.Level) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return fallback
	}
}
