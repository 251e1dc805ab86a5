// Package ctxutil provides type-safe context value management for the
// identifiers that follow a LINE event through logging.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	userIDKey    contextKey = "ctxutil.userID"
	chatIDKey    contextKey = "ctxutil.chatID"
	requestIDKey contextKey = "ctxutil.requestID"
	eventIDKey   contextKey = "ctxutil.eventID"
)

func with(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func get(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithUserID adds the LINE user ID of the sender to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return with(ctx, userIDKey, userID)
}

// GetUserID returns the user ID, or "" when absent.
func GetUserID(ctx context.Context) string {
	return get(ctx, userIDKey)
}

// WithChatID adds the conversation ID (user, group or room) to the context.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return with(ctx, chatIDKey, chatID)
}

// GetChatID returns the chat ID, or "" when absent.
func GetChatID(ctx context.Context) string {
	return get(ctx, chatIDKey)
}

// WithRequestID adds the HTTP request ID used for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return with(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID and whether it was set.
func GetRequestID(ctx context.Context) (string, bool) {
	id := get(ctx, requestIDKey)
	return id, id != ""
}

// WithEventID adds the LINE webhook event ID to the context.
func WithEventID(ctx context.Context, eventID string) context.Context {
	return with(ctx, eventIDKey, eventID)
}

// GetEventID returns the webhook event ID, or "" when absent.
func GetEventID(ctx context.Context) string {
	return get(ctx, eventIDKey)
}
