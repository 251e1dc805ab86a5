package logger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
)

// MultiHandler writes every record to the local JSON sink and, when Better
// Stack is configured, to the async remote sink. Each sink gets its own
// clone of the record and applies its own level.
type MultiHandler struct {
	sinks []slog.Handler
}

// NewMultiHandler drops nil sinks so callers can pass optional ones directly.
func NewMultiHandler(sinks ...slog.Handler) *MultiHandler {
	return &MultiHandler{sinks: slices.DeleteFunc(slices.Clone(sinks), func(s slog.Handler) bool {
		return s == nil
	})}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(h.sinks, func(s slog.Handler) bool {
		return s.Enabled(ctx, level)
	})
}

// Handle keeps writing to the remaining sinks when one fails and returns
// every failure joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range h.sinks {
		if s.Enabled(ctx, r.Level) {
			errs = append(errs, s.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}

func (h *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, s := range h.sinks {
		sinks[i] = fn(s)
	}
	return &MultiHandler{sinks: sinks}
}
