// Package logging builds the slog logger tap2tap writes its diagnostics with.
// Logs always go to stderr; stdout carries only TAP.
package logging

import (
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// ParseLevel maps a level name to a slog level.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "err", "error":
		return slog.LevelError, true
	}
	return 0, false
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// New returns a logger writing to w at the named level. Terminals get a
// colored tint handler, anything else the plain text handler. Unknown level
// names fall back to DefaultLevel.
func New(w io.Writer, level string) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if !ok {
		lvl, _ = ParseLevel(DefaultLevel)
	}
	if IsTerminal(w) {
		return slog.New(newTerminalHandler(w, lvl))
	}
	return slog.New(newTextHandler(w, lvl))
}

func newTextHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				if len(groups) == 0 {
					return slog.Attr{}
				}
			case slog.LevelKey:
				return slog.String(a.Key, strings.ToLower(a.Value.String()))
			}
			return a
		},
	})
}

func newTerminalHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor: runtime.GOOS == "windows",
		Level:   lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		},
	})
}
