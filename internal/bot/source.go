package bot

import "github.com/line/line-bot-sdk-go/v8/linebot/webhook"

// GetChatID returns the conversation the reply goes to:
// the user for 1-on-1 chats, otherwise the group or room.
func GetChatID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.GroupId
	case webhook.RoomSource:
		return s.RoomId
	}
	return ""
}

// GetUserID returns the sender's user ID, which LINE omits for some
// group and room members.
func GetUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	}
	return ""
}

// SourceType labels the source for logs and metrics.
func SourceType(source webhook.SourceInterface) string {
	switch source.(type) {
	case webhook.UserSource:
		return "user"
	case webhook.GroupSource:
		return "group"
	case webhook.RoomSource:
		return "room"
	}
	return "unknown"
}
