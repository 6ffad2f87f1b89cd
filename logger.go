package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a JSON slog.Logger on stdout at the given level, tagged
// with the application name.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("app", "hrm-go")
}
