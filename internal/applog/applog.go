// Package applog builds the slog logger used by the command line tool.
//
// Console output goes to the given writer as text or JSON. When a file is
// configured, records are also written there as JSON with size-based
// rotation.
package applog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for file logging.
const (
	MaxSizeMB  = 10
	MaxBackups = 3
	MaxAgeDays = 28
)

// Options controls logger construction.
type Options struct {
	Level     string // debug, info, warn or error
	Format    string // text or json
	AddSource bool
	File      string // optional path for rotated JSON logs
}

// New returns a logger writing to w, and a close function that releases the
// log file. The close function is always non-nil.
func New(opts Options, w io.Writer) (*slog.Logger, func() error) {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level), AddSource: opts.AddSource}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = slog.NewTextHandler(w, hopts)
	}

	if strings.TrimSpace(opts.File) == "" {
		return slog.New(console), func() error { return nil }
	}

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    MaxSizeMB,
		MaxBackups: MaxBackups,
		MaxAge:     MaxAgeDays,
		Compress:   true,
	}
	file := slog.NewJSONHandler(lj, hopts)
	return slog.New(fanout(console, file)), lj.Close
}

// ParseLevel converts a level name. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout sends records to every handler that accepts their level.
func fanout(handlers ...slog.Handler) slog.Handler { return multi(handlers) }

type multi []slog.Handler

func (m multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m multi) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multi, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multi) WithGroup(name string) slog.Handler {
	out := make(multi, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
