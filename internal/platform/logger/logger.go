package logger

import (
	"log/slog"
	"os"
)

// New returns a structured JSON logger writing to stdout. Call sites that may
// run without a logger (pure-function tests) must tolerate nil.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
