// Package config provides centralized timeout constants for the application.
//
// # LINE API Constraints
//
// Replies are sent synchronously inside the webhook request, so the whole
// classify + ReplyMessage round trip must finish before LINE gives up on
// the callback. The reply token itself is short-lived and single use.
package config

import "time"

// Webhook timeouts
const (
	// WebhookProcessing bounds the reply dispatch calls made for one webhook request.
	WebhookProcessing = 25 * time.Second

	// WebhookHTTPRead is the HTTP server read timeout for webhook requests.
	// Should be short since LINE sends small JSON payloads.
	WebhookHTTPRead = 10 * time.Second

	// WebhookHTTPWrite is the HTTP server write timeout.
	// Should accommodate WebhookProcessing + response serialization.
	WebhookHTTPWrite = 30 * time.Second

	// WebhookHTTPIdle is the HTTP server idle timeout for keep-alive connections.
	WebhookHTTPIdle = 120 * time.Second
)

// Reply dispatch
const (
	// LineAPIRequest is the HTTP client timeout for Messaging API calls.
	LineAPIRequest = 10 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the timeout for graceful server shutdown.
	// Allows in-flight requests to complete before forceful termination.
	GracefulShutdown = 30 * time.Second

	// SentryFlush bounds how long shutdown waits for queued error events.
	SentryFlush = 2 * time.Second
)
