package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceHandler_ReplyLogCarriesEventTrace(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

	ctx := ctxutil.WithRequestID(context.Background(), "req-7")
	ctx = ctxutil.WithEventID(ctx, "01HEVENT")
	ctx = ctxutil.WithChatID(ctx, "Cgroup")
	ctx = ctxutil.WithUserID(ctx, "Uuser")
	log.InfoContext(ctx, "Reply sent", "rule", "weight", "message_count", 1)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-7", entry["request_id"])
	assert.Equal(t, "01HEVENT", entry["event_id"])
	assert.Equal(t, "Cgroup", entry["chat_id"])
	assert.Equal(t, "Uuser", entry["user_id"])
	assert.Equal(t, "weight", entry["rule"])
}

func TestTraceHandler_OmitsMissingIDs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(NewTraceHandler(slog.NewJSONHandler(&buf, nil)))

	// signature failures are logged before any event is parsed
	ctx := ctxutil.WithRequestID(context.Background(), "req-8")
	ctx = ctxutil.WithUserID(ctx, "")
	log.WarnContext(ctx, "Invalid webhook signature")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "req-8", entry["request_id"])
	for _, key := range []string{"event_id", "chat_id", "user_id"} {
		assert.NotContains(t, entry, key)
	}
}

func TestTraceHandler_KeepsDerivedAttrsAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	h := NewTraceHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))

	log := slog.New(h).With("service", "protein").WithGroup("reply")
	log.ErrorContext(ctxutil.WithEventID(context.Background(), "01HFAIL"), "Failed to send reply", "status", 400)

	entry := decodeLine(t, &buf)
	assert.Equal(t, "protein", entry["service"])
	reply, ok := entry["reply"].(map[string]any)
	require.True(t, ok, buf.String())
	assert.InDelta(t, 400, reply["status"], 0)
	assert.Equal(t, "01HFAIL", reply["event_id"])
}
