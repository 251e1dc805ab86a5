package ctxutil

import (
	"context"
	"testing"
)

func TestContextValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		with func(context.Context, string) context.Context
		get  func(context.Context) string
		id   string
	}{
		{"user ID", WithUserID, GetUserID, "U1234567890"},
		{"chat ID", WithChatID, GetChatID, "C1234567890"},
		{"event ID", WithEventID, GetEventID, "01H5ZPQ4N8ZQ"},
		{"request ID", WithRequestID, func(ctx context.Context) string {
			id, _ := GetRequestID(ctx)
			return id
		}, "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			if got := tt.get(ctx); got != "" {
				t.Errorf("empty context returned %q", got)
			}
			ctx = tt.with(ctx, tt.id)
			if got := tt.get(ctx); got != tt.id {
				t.Errorf("got %q, want %q", got, tt.id)
			}
		})
	}
}

func TestEmptyValueIsNotStored(t *testing.T) {
	t.Parallel()

	base := context.Background()
	if ctx := WithUserID(base, ""); ctx != base {
		t.Error("WithUserID with empty value should return the parent context")
	}
	if _, ok := GetRequestID(WithRequestID(base, "")); ok {
		t.Error("GetRequestID should report false for an empty request ID")
	}
}

func TestContextChaining(t *testing.T) {
	t.Parallel()

	ctx := WithUserID(context.Background(), "U1")
	ctx = WithChatID(ctx, "G1")
	ctx = WithRequestID(ctx, "r1")

	if GetUserID(ctx) != "U1" || GetChatID(ctx) != "G1" {
		t.Errorf("chained values lost: user=%q chat=%q", GetUserID(ctx), GetChatID(ctx))
	}
	if id, ok := GetRequestID(ctx); !ok || id != "r1" {
		t.Errorf("GetRequestID() = %q, %v", id, ok)
	}
}
