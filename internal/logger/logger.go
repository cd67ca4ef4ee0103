package logger

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a configured level name to a slog level. Unknown names
// fall back to info and report false.
func ParseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// New returns a text logger writing to w at the named level, tagged with
// the run id so that every line of one pipeline run can be grouped.
func New(w io.Writer, level, runID string) *slog.Logger {
	lvl, ok := ParseLevel(level)
	l := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})).With(slog.String("run_id", runID))
	if !ok {
		l.Warn("invalid log level, defaulting to info", "configured_level", level)
	}
	return l
}
