package lineutil

// LINE API limits
// References: https://developers.line.biz/en/reference/messaging-api/
const (
	MaxTextMessageLength = 5000  // Text message max content length (runes)
	MaxMessagesPerReply  = 5     // Messages in a single reply request
	MaxInboundTextLength = 20000 // Text a user can send in one message
	MaxImageURLLength    = 2000  // originalContentUrl / previewImageUrl
)
