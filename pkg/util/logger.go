package util

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the process logger: debug-level text in development,
// info-level JSON everywhere else.
func NewLogger(env string) *slog.Logger {
	return NewLoggerWithWriter(env, os.Stdout)
}

// NewLoggerWithWriter is NewLogger with an explicit destination, so tests
// can capture or discard output.
func NewLoggerWithWriter(env string, w io.Writer) *slog.Logger {
	if env == "development" {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
