package bot

import (
	"testing"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/stretchr/testify/assert"
)

func TestSourceIDs(t *testing.T) {
	tests := []struct {
		name     string
		source   webhook.SourceInterface
		chatID   string
		userID   string
		typeName string
	}{
		{"user", webhook.UserSource{UserId: "U1"}, "U1", "U1", "user"},
		{"group", webhook.GroupSource{GroupId: "G1", UserId: "U2"}, "G1", "U2", "group"},
		{"room without user", webhook.RoomSource{RoomId: "R1"}, "R1", "", "room"},
		{"nil", nil, "", "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.chatID, GetChatID(tt.source))
			assert.Equal(t, tt.userID, GetUserID(tt.source))
			assert.Equal(t, tt.typeName, SourceType(tt.source))
		})
	}
}
