// Package logging builds the slog loggers used across the module.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/sameerraj-blip/MaricoShareAnalysisFeature-sub004/internal/config"
)

// New builds a logger writing to stderr according to cfg.
func New(cfg config.Config) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter builds a logger writing to w. Verbose logging lowers the
// level to Debug; LogFormat selects the JSON or text handler.
func NewWithWriter(w io.Writer, cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.VerboseLogging {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFormat == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
