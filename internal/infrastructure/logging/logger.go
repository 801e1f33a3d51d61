// Package logging provides structured logging utilities.
//
// Logs are formatted in Maven-style with colors:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
package logging

import (
	"log/slog"
	"os"

	"github.com/eshaffer321/subscription-auditor/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := NewMavenHandler(os.Stdout, opts)

	return slog.New(handler)
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g. "audit",
// "api", "refund"). Useful for scoped loggers injected into collaborators.
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	logger := NewLogger(cfg)
	return logger.With("system", system)
}
