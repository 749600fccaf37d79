package platform

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevels lists the accepted --log values.
var LogLevels = []string{"DEBUG", "INFO", "WARN", "ERROR"}

// ParseLevel maps a level name (case-insensitive) to a slog.Level.
// An empty name means INFO.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q (want one of %s)", name, strings.Join(LogLevels, ", "))
}

// NewLogger creates a text logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
