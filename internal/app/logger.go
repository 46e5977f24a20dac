// Package app wires process-level infrastructure shared by the binaries.
package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/casekit/caseflow/internal/config"
)

// NewLogger creates a *slog.Logger from LogConfig and installs it as the
// process default via slog.SetDefault.
//
// Format "json" produces structured output for production; anything else
// falls back to a human-readable text handler with source locations.
// Level is one of debug, info, warn, error (case-insensitive).
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

// newLogger builds the handler against an arbitrary writer so tests can
// assert on the output.
func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	json := strings.EqualFold(cfg.Format, "json")
	opts := &slog.HandlerOptions{
		Level:     parseLevel(cfg.Level),
		AddSource: !json,
	}

	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
