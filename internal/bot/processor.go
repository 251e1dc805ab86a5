// Package bot turns LINE message events into reply messages.
// The Processor runs each text message through the protein classifier
// behind a small middleware chain and converts the resulting batch into
// LINE messaging API messages.
package bot

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
	"github.com/garyellow/protein-linebot-go/internal/lineutil"
	"github.com/garyellow/protein-linebot-go/internal/logger"
	"github.com/garyellow/protein-linebot-go/internal/metrics"
	"github.com/garyellow/protein-linebot-go/internal/protein"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// ErrNoReply is returned when classification produced nothing to send.
var ErrNoReply = errors.New("classifier produced no reply")

// Result is the outcome of processing one message event.
// A zero Result means the event is not answered (non-text message).
type Result struct {
	Rule     string
	Messages []messaging_api.MessageInterface
}

// Processor handles the core logic of answering LINE message events.
type Processor struct {
	classifier  *protein.Classifier
	classify    ClassifyFunc
	logger      *logger.Logger
	maxMessages int
}

// ProcessorConfig holds configuration for creating a new Processor.
type ProcessorConfig struct {
	Classifier  *protein.Classifier
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
	MaxMessages int // Per reply; defaults to the LINE limit
}

// NewProcessor creates a new event processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	maxMessages := cfg.MaxMessages
	if maxMessages <= 0 || maxMessages > lineutil.MaxMessagesPerReply {
		maxMessages = lineutil.MaxMessagesPerReply
	}

	base := func(_ context.Context, text string) (string, protein.Batch) {
		return cfg.Classifier.Match(text)
	}

	return &Processor{
		classifier: cfg.Classifier,
		classify: Chain(base,
			RecoveryMiddleware(cfg.Logger),
			LoggingMiddleware(cfg.Logger),
			MetricsMiddleware(cfg.Metrics),
		),
		logger:      cfg.Logger,
		maxMessages: maxMessages,
	}
}

// ProcessMessage answers a message event. Only text messages produce a reply.
func (p *Processor) ProcessMessage(ctx context.Context, event webhook.MessageEvent) (Result, error) {
	ctx = ctxutil.WithChatID(ctx, GetChatID(event.Source))
	ctx = ctxutil.WithUserID(ctx, GetUserID(event.Source))

	textMsg, ok := event.Message.(webhook.TextMessageContent)
	if !ok {
		p.logger.DebugContext(ctx, "Ignoring non-text message", "message_type", messageType(event.Message))
		return Result{}, nil
	}

	rule, batch := p.Answer(ctx, textMsg.Text)
	if len(batch) == 0 {
		return Result{Rule: rule}, ErrNoReply
	}

	return Result{
		Rule:     rule,
		Messages: lineutil.LimitMessages(ToMessages(batch), p.maxMessages),
	}, nil
}

// Answer classifies raw user text. Oversized input is cut to the LINE inbound limit.
func (p *Processor) Answer(ctx context.Context, text string) (string, protein.Batch) {
	if utf8.RuneCountInString(text) > lineutil.MaxInboundTextLength {
		p.logger.WarnContext(ctx, "Text message too long, truncating", "length", len(text))
		text = string([]rune(text)[:lineutil.MaxInboundTextLength])
	}
	return p.classify(ctx, text)
}

// Profile returns the name of the active reply profile.
func (p *Processor) Profile() string {
	return p.classifier.Profile()
}

func messageType(m webhook.MessageContentInterface) string {
	if m == nil {
		return "none"
	}
	return m.GetType()
}

// ToMessages converts a reply batch into LINE messages, preserving order.
func ToMessages(batch protein.Batch) []messaging_api.MessageInterface {
	messages := make([]messaging_api.MessageInterface, 0, len(batch))
	for _, reply := range batch {
		switch r := reply.(type) {
		case protein.TextReply:
			messages = append(messages, lineutil.NewTextMessage(r.Body))
		case protein.ImageReply:
			messages = append(messages, lineutil.NewImageMessage(r.FullURL, r.PreviewURL))
		}
	}
	return messages
}
