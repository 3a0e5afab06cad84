// Package logging wires the process-wide slog logger to a charmbracelet/log
// handler so call sites can keep using slog.Info("msg", "key", value).
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// New creates a timestamped logger writing to w at level.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Setup installs a logger for w as the slog default and returns it.
// verbose lowers the level to debug.
func Setup(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	logger := New(w, level)
	slog.SetDefault(slog.New(logger))
	return logger
}
