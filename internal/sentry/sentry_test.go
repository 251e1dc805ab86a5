package sentry

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingHub returns a hub whose events are captured in memory instead of sent.
func recordingHub(t *testing.T) (*sentry.Hub, func() []*sentry.Event) {
	t.Helper()

	var mu sync.Mutex
	var events []*sentry.Event
	opts := Config{Token: "test-token", Host: "errors.example.com"}.Options()
	next := opts.BeforeSend
	opts.BeforeSend = func(event *sentry.Event, hint *sentry.EventHint) *sentry.Event {
		mu.Lock()
		events = append(events, next(event, hint))
		mu.Unlock()
		return nil
	}

	client, err := sentry.NewClient(opts)
	require.NoError(t, err)

	return sentry.NewHub(client, sentry.NewScope()), func() []*sentry.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*sentry.Event(nil), events...)
	}
}

func TestConfig_DSN(t *testing.T) {
	t.Parallel()
	cfg := Config{Token: "abc", Host: "errors.betterstack.com"}
	assert.Equal(t, "https://abc@errors.betterstack.com/1", cfg.DSN())
}

func TestConfig_Options(t *testing.T) {
	t.Parallel()

	opts := Config{Token: "abc", Host: "h", Environment: "staging", ServerName: "pod-1"}.Options()
	assert.InDelta(t, 1.0, opts.SampleRate, 0)
	assert.Equal(t, "staging", opts.Environment)
	assert.Equal(t, "pod-1", opts.ServerName)
	assert.True(t, opts.AttachStacktrace)

	opts = Config{Token: "abc", Host: "h", SampleRate: 0.25}.Options()
	assert.InDelta(t, 0.25, opts.SampleRate, 0)
}

func TestInitialize_EmptyToken(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Initialize(Config{Token: ""}))
}

func TestInitialize_MissingHost(t *testing.T) {
	t.Parallel()
	assert.Error(t, Initialize(Config{Token: "test-token"}))
}

func TestInitialize_ValidConfig(t *testing.T) {
	// Cannot use t.Parallel() as Sentry uses global state
	err := Initialize(Config{
		Token:       "test-token",
		Host:        "errors.betterstack.com",
		Environment: "test",
	})
	require.NoError(t, err)
	assert.True(t, IsEnabled())

	Flush(time.Second)
}

func TestScrubUserText(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{Request: &sentry.Request{Data: `{"text":"我今天吃了3顆蛋"}`, Method: "POST"}}
	out := scrubUserText(event, nil)
	assert.Empty(t, out.Request.Data)
	assert.Equal(t, "POST", out.Request.Method)

	assert.NotNil(t, scrubUserText(&sentry.Event{}, nil))
}

func TestCaptureWithTags(t *testing.T) {
	t.Parallel()

	hub, events := recordingHub(t)
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	CaptureWithTags(ctx, errors.New("reply failed"), map[string]string{"rule": "weight"})
	CaptureExceptionWithContext(ctx, errors.New("plain"))
	hub.Flush(time.Second)

	got := events()
	require.Len(t, got, 2)
	assert.Equal(t, "weight", got[0].Tags["rule"])
	assert.NotContains(t, got[1].Tags, "rule", "tags must not leak out of the capture scope")
}
