// Package logger builds the slog logger used across tradebook.
package logger

import (
	"io"
	"log/slog"
	"strings"
	"time"
)

// ParseLevel maps debug|info|warn|error to a slog level. ok is false for
// anything else, in which case info is returned.
func ParseLevel(s string) (level slog.Level, ok bool) {
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

// New returns a logger writing to w. format is "json" or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	lvl, ok := ParseLevel(level)

	opts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	l := slog.New(handler)

	if !ok {
		l.Warn("invalid log level, defaulting to info", "configuredLevel", level)
	}
	return l
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
