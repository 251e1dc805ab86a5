// Package webhook receives LINE webhook callbacks, runs each text message
// through the bot processor and sends the answer back with one reply call
// per event.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/garyellow/protein-linebot-go/internal/bot"
	"github.com/garyellow/protein-linebot-go/internal/config"
	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
	domerrors "github.com/garyellow/protein-linebot-go/internal/errors"
	"github.com/garyellow/protein-linebot-go/internal/lineutil"
	"github.com/garyellow/protein-linebot-go/internal/logger"
	"github.com/garyellow/protein-linebot-go/internal/metrics"
	"github.com/garyellow/protein-linebot-go/internal/sentry"
	sentrygo "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Replier sends reply messages. *messaging_api.MessagingApiAPI implements it.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// Handler handles LINE webhook events
type Handler struct {
	channelSecret string
	replier       Replier
	processor     *bot.Processor
	metrics       *metrics.Metrics
	logger        *logger.Logger

	processingTimeout   time.Duration
	maxMessagesPerReply int
	maxEventsPerWebhook int
}

// HandlerConfig holds configuration for creating a new Handler
type HandlerConfig struct {
	ChannelSecret string
	ChannelToken  string
	// Replier overrides the LINE client built from ChannelToken.
	Replier   Replier
	Processor *bot.Processor
	Metrics   *metrics.Metrics
	Logger    *logger.Logger

	ProcessingTimeout   time.Duration
	MaxMessagesPerReply int
	MaxEventsPerWebhook int
}

// NewHandler creates a new webhook handler.
func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.ChannelSecret == "" {
		return nil, errors.New("channel secret is required")
	}
	if cfg.Processor == nil {
		return nil, errors.New("processor is required")
	}

	replier := cfg.Replier
	if replier == nil {
		client, err := messaging_api.NewMessagingApiAPI(
			cfg.ChannelToken,
			messaging_api.WithHTTPClient(&http.Client{Timeout: config.LineAPIRequest}),
		)
		if err != nil {
			return nil, fmt.Errorf("create messaging API client: %w", err)
		}
		replier = client
	}

	h := &Handler{
		channelSecret:       cfg.ChannelSecret,
		replier:             replier,
		processor:           cfg.Processor,
		metrics:             cfg.Metrics,
		logger:              cfg.Logger,
		processingTimeout:   cfg.ProcessingTimeout,
		maxMessagesPerReply: cfg.MaxMessagesPerReply,
		maxEventsPerWebhook: cfg.MaxEventsPerWebhook,
	}
	if h.processingTimeout <= 0 {
		h.processingTimeout = config.WebhookProcessing
	}
	if h.maxMessagesPerReply <= 0 || h.maxMessagesPerReply > lineutil.MaxMessagesPerReply {
		h.maxMessagesPerReply = lineutil.MaxMessagesPerReply
	}
	if h.maxEventsPerWebhook <= 0 {
		h.maxEventsPerWebhook = 100
	}
	return h, nil
}

// Handle is the Gin handler for the webhook endpoint.
// It answers 400 for a bad signature, 500 for an unreadable body or a failed
// reply, and 200 "OK" once every event has been handled.
func (h *Handler) Handle(c *gin.Context) {
	start := time.Now()

	cb, err := ParseCallback(h.channelSecret, c.Request)
	if err != nil {
		var sigErr *domerrors.SignatureError
		if errors.As(err, &sigErr) {
			h.logger.WithError(sigErr).WarnContext(c.Request.Context(), "Invalid webhook signature")
			h.metrics.RecordHTTPError("invalid_signature", "webhook")
			h.metrics.RecordWebhook("invalid_signature", time.Since(start).Seconds())
			c.String(http.StatusBadRequest, "Invalid signature")
			return
		}
		h.logger.WithError(err).ErrorContext(c.Request.Context(), "Failed to parse webhook request")
		h.metrics.RecordHTTPError("malformed", "webhook")
		h.metrics.RecordWebhook("malformed", time.Since(start).Seconds())
		c.String(http.StatusInternalServerError, "Malformed request")
		return
	}

	ctx := c.Request.Context()
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		ctx = sentrygo.SetHubOnContext(ctx, hub)
	}
	ctx, cancel := context.WithTimeout(ctx, h.processingTimeout)
	defer cancel()

	if err := h.ProcessEvents(ctx, cb.Events); err != nil {
		h.metrics.RecordWebhook("dispatch_error", time.Since(start).Seconds())
		c.String(http.StatusInternalServerError, "Reply failed")
		return
	}

	h.metrics.RecordWebhook("ok", time.Since(start).Seconds())
	c.String(http.StatusOK, "OK")
}

// ProcessEvents handles a callback's events in order. A failed reply does
// not stop later events; all failures are joined into the returned error.
func (h *Handler) ProcessEvents(ctx context.Context, events []webhook.EventInterface) error {
	if len(events) > h.maxEventsPerWebhook {
		h.logger.WithField("event_count", len(events)).
			WithField("limit", h.maxEventsPerWebhook).
			WarnContext(ctx, "Too many events in webhook batch; truncating")
		for _, e := range events[h.maxEventsPerWebhook:] {
			h.metrics.RecordEvent(eventType(e), "dropped")
		}
		events = events[:h.maxEventsPerWebhook]
	}

	var errs []error
	for i, event := range events {
		if ctx.Err() != nil {
			h.logger.WithField("remaining", len(events)-i).
				WarnContext(ctx, "Webhook processing timed out; skipping remaining events")
			for _, e := range events[i:] {
				h.metrics.RecordEvent(eventType(e), "dropped")
			}
			break
		}
		if err := h.processEvent(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *Handler) processEvent(ctx context.Context, event webhook.EventInterface) error {
	e, ok := event.(webhook.MessageEvent)
	if !ok {
		h.logger.WithField("event_type", eventType(event)).DebugContext(ctx, "Unsupported event type")
		h.metrics.RecordEvent(eventType(event), "ignored")
		return nil
	}

	ctx = ctxutil.WithEventID(ctx, e.WebhookEventId)
	log := h.logger.WithField("source_type", bot.SourceType(e.Source))
	if e.DeliveryContext != nil && e.DeliveryContext.IsRedelivery {
		log = log.WithField("is_redelivery", true)
	}

	result, err := h.processor.ProcessMessage(ctx, e)
	if err != nil {
		log.WithError(err).ErrorContext(ctx, "Failed to process message")
		h.metrics.RecordEvent("message", "error")
		return nil
	}
	if len(result.Messages) == 0 {
		h.metrics.RecordEvent("message", "ignored")
		return nil
	}
	if e.ReplyToken == "" {
		log.DebugContext(ctx, "Empty reply token, skipping reply")
		h.metrics.RecordEvent("message", "ignored")
		return nil
	}

	messages := lineutil.LimitMessages(result.Messages, h.maxMessagesPerReply)
	if err := h.reply(e.WebhookEventId, e.ReplyToken, messages); err != nil {
		log.WithError(err).
			WithField("rule", result.Rule).
			WithField("message_count", len(messages)).
			ErrorContext(ctx, "Failed to send reply")
		sentry.CaptureWithTags(ctx, err, map[string]string{
			"rule":     result.Rule,
			"event_id": e.WebhookEventId,
		})
		h.metrics.RecordEvent("message", "error")
		return err
	}

	log.WithField("rule", result.Rule).
		WithField("message_count", len(messages)).
		InfoContext(ctx, "Reply sent")
	h.metrics.RecordEvent("message", "replied")
	return nil
}

// reply makes the single ReplyMessage call for one event.
func (h *Handler) reply(eventID, replyToken string, messages []messaging_api.MessageInterface) error {
	start := time.Now()
	_, err := h.replier.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		h.metrics.RecordReply("error", time.Since(start).Seconds())
		return domerrors.NewDispatchError(eventID, len(messages), err)
	}
	h.metrics.RecordReply("success", time.Since(start).Seconds())
	return nil
}

func eventType(event webhook.EventInterface) string {
	if event == nil {
		return "unknown"
	}
	return event.GetType()
}
