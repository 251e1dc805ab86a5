package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Core (Required)
	EnvLineChannelAccessToken = "LINE_TOKEN"
	EnvLineChannelSecret      = "LINE_SECRET"

	// Server
	EnvPort            = "PORT"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvLivenessMessage = "LIVENESS_MESSAGE"
	EnvServiceName     = "SERVICE_NAME"

	// Bot
	EnvBotProfile      = "BOT_PROFILE"
	EnvBotProfileFile  = "BOT_PROFILE_FILE"
	EnvWebhookTimeout  = "WEBHOOK_TIMEOUT"
	EnvMaxEventsPerReq = "WEBHOOK_MAX_EVENTS"

	// Sentry Feature
	EnvSentryEnabled     = "SENTRY_ENABLED"
	EnvSentryToken       = "SENTRY_TOKEN"
	EnvSentryHost        = "SENTRY_HOST"
	EnvSentryEnvironment = "SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SENTRY_SAMPLE_RATE"

	// Better Stack Feature
	EnvBetterStackToken    = "BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "BETTERSTACK_ENDPOINT"

	// Metrics Auth Feature
	EnvMetricsAuthEnabled = "METRICS_AUTH_ENABLED"
	EnvMetricsUsername    = "METRICS_USERNAME"
	EnvMetricsPassword    = "METRICS_PASSWORD"
)
