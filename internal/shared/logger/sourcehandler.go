package logger

import (
	"context"
	"log/slog"
	"runtime"
)

type sourceHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

// NewSourceHandler wraps a handler so that records at or above minLevel carry
// the caller's source location. The wrapped handler should have AddSource: false.
//
//	handler := NewSourceHandler(tint.NewHandler(os.Stdout, opts), slog.LevelWarn)
func NewSourceHandler(handler slog.Handler, minLevel slog.Level) slog.Handler {
	return &sourceHandler{
		handler:  handler,
		minLevel: minLevel,
	}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel && r.PC != 0 {
		fs := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := fs.Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: f.Function,
			File:     f.File,
			Line:     f.Line,
		}))
	}
	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}
