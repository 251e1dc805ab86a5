package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failingHandler struct{ err error }

func (h failingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h failingHandler) Handle(context.Context, slog.Record) error { return h.err }
func (h failingHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h failingHandler) WithGroup(string) slog.Handler             { return h }

func TestMultiHandler_FiltersNil(t *testing.T) {
	t.Parallel()
	mh := NewMultiHandler(nil, slog.NewJSONHandler(&bytes.Buffer{}, nil), nil)
	assert.Len(t, mh.sinks, 1)
}

func TestMultiHandler_FanOutRespectsLevels(t *testing.T) {
	t.Parallel()

	var local, remote bytes.Buffer
	mh := NewMultiHandler(
		slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(mh)

	assert.True(t, mh.Enabled(context.Background(), slog.LevelDebug))

	log.Debug("classified")
	log.Error("reply failed")

	assert.Equal(t, 2, strings.Count(local.String(), "\n"))
	assert.Equal(t, 1, strings.Count(remote.String(), "\n"))
	assert.Contains(t, remote.String(), "reply failed")
	assert.NotContains(t, remote.String(), "classified")
}

func TestMultiHandler_AttrsAndGroups(t *testing.T) {
	t.Parallel()

	var a, b bytes.Buffer
	mh := NewMultiHandler(slog.NewJSONHandler(&a, nil), slog.NewJSONHandler(&b, nil))
	slog.New(mh).With("service", "protein").WithGroup("reply").Info("sent", "count", 2)

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, `"service":"protein"`)
		assert.Contains(t, out, `"reply":{"count":2}`)
	}
}

func TestMultiHandler_JoinsErrors(t *testing.T) {
	t.Parallel()

	errA, errB := errors.New("a"), errors.New("b")
	var buf bytes.Buffer
	mh := NewMultiHandler(failingHandler{errA}, slog.NewJSONHandler(&buf, nil), failingHandler{errB})

	err := mh.Handle(context.Background(), slog.NewRecord(timeZero, slog.LevelInfo, "x", 0))
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.NotZero(t, buf.Len(), "healthy handler still receives the record")
}
