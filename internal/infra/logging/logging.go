package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupJSON sets slog's default logger to use JSON output at the given level.
func SetupJSON(level slog.Level) {
	Setup("json", level)
}

// Setup installs a default logger writing to stdout. format is "json" or
// "text"; anything else falls back to JSON.
func Setup(format string, level slog.Level) *slog.Logger {
	logger := New(os.Stdout, format, level)
	slog.SetDefault(logger)

	return logger
}

func New(w io.Writer, format string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}
