package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// fanout sends a record to every handler that accepts its level.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// output is the swappable destination shared by every logger of a module.
type output struct {
	handler atomic.Pointer[slog.Handler]
}

func newOutput(h slog.Handler) *output {
	o := &output{}
	o.set(h)
	return o
}

func (o *output) set(h slog.Handler) {
	o.handler.Store(&h)
}

func (o *output) get() slog.Handler {
	return *o.handler.Load()
}

// moduleHandler routes a module's records to its current output. Loggers
// handed out by GetLogger keep their identity when Initialize rebuilds the
// output chain. Attributes and groups added later are replayed on the
// current output for each record.
type moduleHandler struct {
	out   *output
	level slog.Leveler
	steps []func(slog.Handler) slog.Handler
}

func (h *moduleHandler) resolve() slog.Handler {
	handler := h.out.get()
	for _, step := range h.steps {
		handler = step(handler)
	}
	return handler
}

func (h *moduleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *moduleHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.resolve().Handle(ctx, r)
}

func (h *moduleHandler) with(step func(slog.Handler) slog.Handler) *moduleHandler {
	steps := make([]func(slog.Handler) slog.Handler, len(h.steps), len(h.steps)+1)
	copy(steps, h.steps)
	return &moduleHandler{out: h.out, level: h.level, steps: append(steps, step)}
}

func (h *moduleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithAttrs(attrs) })
}

func (h *moduleHandler) WithGroup(name string) slog.Handler {
	return h.with(func(next slog.Handler) slog.Handler { return next.WithGroup(name) })
}
