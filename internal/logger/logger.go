// Package logger builds the leveled, structured loggers used across the app.
package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the slog handler.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Logger is a slog.Logger whose minimum level can be changed after it is
// built. Loggers derived from it with With share the same level.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// New returns a logger writing to w at the given minimum level. Every record
// carries a component attribute set to prefix.
func New(w io.Writer, prefix string, level slog.Level, format string) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)
	opts := &slog.HandlerOptions{Level: lv}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	l := slog.New(h)
	if prefix != "" {
		l = l.With("component", prefix)
	}
	return &Logger{Logger: l, level: lv}
}

// SetLevel changes the minimum level of l and every logger derived from it.
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// Level reports the current minimum level.
func (l *Logger) Level() slog.Level {
	return l.level.Level()
}

// ParseLevel maps debug, info, warn and error (any case) to a slog level.
// Anything else is treated as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FormatError renders err and every error it wraps, outermost first.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%T: %s", err, err.Error())
	for inner := errors.Unwrap(err); inner != nil; inner = errors.Unwrap(inner) {
		fmt.Fprintf(&b, "\n  caused by %T: %s", inner, inner.Error())
	}
	return b.String()
}
