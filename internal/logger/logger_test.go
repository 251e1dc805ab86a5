package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("disk almost full")

	entry := decodeLine(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		assert.Contains(t, entry, field)
	}
	assert.Equal(t, "disk almost full", entry["message"])
	assert.Equal(t, "warning", entry["level"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Error("shown")
	assert.Equal(t, "error", decodeLine(t, &buf)["level"])
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.WithModule("webhook").
		WithRequestID("req-1").
		WithField("rule", "weight").
		WithError(errors.New("reply failed")).
		Debug("dispatch")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "webhook", entry["module"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "weight", entry["rule"])
	assert.Equal(t, "reply failed", entry["error"])
}

func TestLogger_ContextValues(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithChatID(context.Background(), "C1")
	ctx = ctxutil.WithEventID(ctx, "01EVT")
	log.InfoContext(ctx, "classified")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "C1", entry["chat_id"])
	assert.Equal(t, "01EVT", entry["event_id"])
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	log := NewWithWriter("info", &bytes.Buffer{})
	assert.NoError(t, log.Shutdown(context.Background()))
	assert.Zero(t, log.Dropped())

	var nilLogger *Logger
	assert.NoError(t, nilLogger.Shutdown(context.Background()))
}

func TestLogger_BetterStackSinkDoesNotBlock(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions("info", &buf, Options{
		BetterStackToken:    "test-token",
		BetterStackEndpoint: "http://127.0.0.1:1",
	})
	require.NotNil(t, log.async)

	log.Info("local copy")
	assert.Equal(t, "local copy", decodeLine(t, &buf)["message"])

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = log.Shutdown(ctx)
}
