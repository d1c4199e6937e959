package main

import (
	"io"
	"log/slog"
)

// newLogger builds the process logger. Debug lowers the level to Debug;
// format selects the text or JSON handler.
func newLogger(w io.Writer, debug bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
