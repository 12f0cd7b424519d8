package internal

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// NewLogger builds the run-scoped logger. Logs go to stderr so stdout stays
// clean for print mode and the MCP protocol.
func NewLogger(cfg *Config) *slog.Logger {
	return newLoggerTo(os.Stderr, cfg)
}

func newLoggerTo(w io.Writer, cfg *Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if cfg.Verbose && level > slog.LevelDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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
