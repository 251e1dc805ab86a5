// Package lineutil provides utility functions for building LINE messages.
package lineutil

import (
	"unicode/utf8"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// NewImageMessage creates an image message with the given URLs.
// The originalContentURL is the full-size image URL, and previewImageURL is the thumbnail.
// LINE API requires both URLs to be HTTPS.
func NewImageMessage(originalContentURL, previewImageURL string) messaging_api.MessageInterface {
	if previewImageURL == "" {
		previewImageURL = originalContentURL
	}
	return &messaging_api.ImageMessage{
		OriginalContentUrl: originalContentURL,
		PreviewImageUrl:    previewImageURL,
	}
}

// NewTextMessage creates a simple text message without sender information.
// LINE API limits: max 5000 characters per text message
func NewTextMessage(text string) *messaging_api.TextMessage {
	return &messaging_api.TextMessage{
		Text: TruncateRunes(text, MaxTextMessageLength),
	}
}

// TruncateRunes shortens text to at most maxRunes runes, ending with "..."
// when anything was cut.
func TruncateRunes(text string, maxRunes int) string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	if maxRunes <= 3 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-3]) + "..."
}

// LimitMessages keeps the first limit messages of a reply.
func LimitMessages(messages []messaging_api.MessageInterface, limit int) []messaging_api.MessageInterface {
	if limit <= 0 || len(messages) <= limit {
		return messages
	}
	return messages[:limit]
}
