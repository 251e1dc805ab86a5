package logger

import (
	"context"
	"log/slog"

	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
)

// traceField is one ctxutil value copied onto log records.
type traceField struct {
	key string
	get func(context.Context) string
}

// traceFields follow an inbound callback from the HTTP request down to the
// single LINE event being answered.
var traceFields = []traceField{
	{"request_id", func(ctx context.Context) string {
		id, _ := ctxutil.GetRequestID(ctx)
		return id
	}},
	{"event_id", ctxutil.GetEventID},
	{"chat_id", ctxutil.GetChatID},
	{"user_id", ctxutil.GetUserID},
}

// TraceHandler stamps records logged with a *Context method with the
// callback trace IDs found in ctx. Missing IDs are omitted.
type TraceHandler struct {
	next slog.Handler
}

func NewTraceHandler(next slog.Handler) *TraceHandler {
	return &TraceHandler{next: next}
}

func (h *TraceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *TraceHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, f := range traceFields {
		if v := f.get(ctx); v != "" {
			r.AddAttrs(slog.String(f.key, v))
		}
	}
	return h.next.Handle(ctx, r)
}

func (h *TraceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return NewTraceHandler(h.next.WithAttrs(attrs))
}

func (h *TraceHandler) WithGroup(name string) slog.Handler {
	return NewTraceHandler(h.next.WithGroup(name))
}
