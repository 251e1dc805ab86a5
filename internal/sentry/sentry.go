// Package sentry provides Sentry SDK initialization for Better Stack error tracking integration.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds Sentry configuration for Better Stack integration.
type Config struct {
	// Token is the Better Stack Errors application token.
	Token string

	// Host is the Better Stack Errors ingesting host (e.g., "errors.betterstack.com").
	Host string

	Environment string
	Release     string
	ServerName  string

	// SampleRate controls error sampling (0.0-1.0, default 1.0 = 100%).
	SampleRate float64

	Debug bool
}

// DSN builds the Better Stack DSN: https://$TOKEN@$HOST/1.
// The project ID is required by the SDK but ignored by Better Stack.
func (c Config) DSN() string {
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host)
}

// Options converts the config into SDK client options.
func (c Config) Options() sentry.ClientOptions {
	sampleRate := c.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	return sentry.ClientOptions{
		Dsn:              c.DSN(),
		Environment:      c.Environment,
		Release:          c.Release,
		ServerName:       c.ServerName,
		SampleRate:       sampleRate,
		Debug:            c.Debug,
		AttachStacktrace: true,
		BeforeSend:       scrubUserText,
	}
}

// Initialize sets up the global Sentry hub.
// An empty token leaves Sentry disabled and returns nil.
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}
	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}
	return sentry.Init(cfg.Options())
}

// scrubUserText drops request bodies, which carry the user's chat messages.
func scrubUserText(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
	if event.Request != nil {
		event.Request.Data = ""
	}
	return event
}

// Flush waits for buffered events to be sent to the server.
// Returns true if all events were sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled returns true if Sentry is initialized and active.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

func hubFrom(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// CaptureExceptionWithContext captures an error on the request hub when present.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hubFrom(ctx).CaptureException(err)
}

// CaptureWithTags captures an error with the given tags set on an isolated scope.
func CaptureWithTags(ctx context.Context, err error, tags map[string]string) {
	hubFrom(ctx).WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		hubFrom(ctx).CaptureException(err)
	})
}
