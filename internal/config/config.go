// Package config provides application configuration management.
// It loads settings from environment variables (optionally seeded from a
// .env file) and provides defaults for the server, bot profile, and the
// optional Sentry, Better Stack and metrics authentication features.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultPort            = "5000"
	DefaultLogLevel        = "info"
	DefaultLivenessMessage = "LINE bot is running"
	DefaultServiceName     = "protein-linebot-go"
	DefaultProfile         = "nutrition"
	DefaultMaxEvents       = 100
	DefaultSentryHost      = "errors.betterstack.com"
)

// Config holds all application configuration
type Config struct {
	// LINE Bot Configuration
	LineChannelToken  string
	LineChannelSecret string

	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	LivenessMessage string // Plain text body of GET /
	ServiceName     string

	// Bot Configuration
	Profile             string // Built-in profile name, ignored when ProfileFile is set
	ProfileFile         string // Optional YAML profile path
	WebhookTimeout      time.Duration
	MaxEventsPerWebhook int
	MaxMessagesPerReply int

	Sentry SentryConfig

	// Better Stack log shipping (disabled when token is empty)
	BetterStackToken    string
	BetterStackEndpoint string

	// Metrics Authentication
	MetricsAuthEnabled bool
	MetricsUsername    string
	MetricsPassword    string
}

// SentryConfig holds error tracking settings.
type SentryConfig struct {
	Enabled     bool
	Token       string
	Host        string
	Environment string
	SampleRate  float64
}

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		LineChannelToken:  getEnv(EnvLineChannelAccessToken, ""),
		LineChannelSecret: getEnv(EnvLineChannelSecret, ""),

		Port:            getEnv(EnvPort, DefaultPort),
		LogLevel:        strings.ToLower(getEnv(EnvLogLevel, DefaultLogLevel)),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		LivenessMessage: getEnv(EnvLivenessMessage, DefaultLivenessMessage),
		ServiceName:     getEnv(EnvServiceName, DefaultServiceName),

		Profile:             getEnv(EnvBotProfile, DefaultProfile),
		ProfileFile:         getEnv(EnvBotProfileFile, ""),
		WebhookTimeout:      getDurationEnv(EnvWebhookTimeout, WebhookProcessing),
		MaxEventsPerWebhook: getIntEnv(EnvMaxEventsPerReq, DefaultMaxEvents),
		MaxMessagesPerReply: 5, // LINE API limit

		Sentry: SentryConfig{
			Enabled:     getBoolEnv(EnvSentryEnabled, false),
			Token:       getEnv(EnvSentryToken, ""),
			Host:        getEnv(EnvSentryHost, DefaultSentryHost),
			Environment: getEnv(EnvSentryEnvironment, "production"),
			SampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),
		},

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsAuthEnabled: getBoolEnv(EnvMetricsAuthEnabled, false),
		MetricsUsername:    getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword:    getEnv(EnvMetricsPassword, ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.LineChannelToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelAccessToken))
	}
	if c.LineChannelSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvLineChannelSecret))
	}
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("%s must be a port number, got %q", EnvPort, c.Port))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvShutdownTimeout, c.ShutdownTimeout))
	}
	if c.ProfileFile == "" && c.Profile == "" {
		errs = append(errs, fmt.Errorf("%s or %s is required", EnvBotProfile, EnvBotProfileFile))
	}
	if c.WebhookTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvWebhookTimeout, c.WebhookTimeout))
	}
	if c.MaxEventsPerWebhook < 1 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxEventsPerReq, c.MaxEventsPerWebhook))
	}
	if c.MaxMessagesPerReply < 1 || c.MaxMessagesPerReply > 5 {
		errs = append(errs, fmt.Errorf("max messages per reply must be 1-5 (LINE API limit), got %d", c.MaxMessagesPerReply))
	}
	if c.Sentry.Enabled {
		if c.Sentry.Token == "" {
			errs = append(errs, fmt.Errorf("%s is required when Sentry is enabled", EnvSentryToken))
		}
		if c.Sentry.Host == "" {
			errs = append(errs, fmt.Errorf("%s is required when Sentry is enabled", EnvSentryHost))
		}
		if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
			errs = append(errs, fmt.Errorf("%s must be between 0 and 1, got %v", EnvSentrySampleRate, c.Sentry.SampleRate))
		}
	}
	if c.MetricsAuthEnabled && c.MetricsPassword == "" {
		errs = append(errs, fmt.Errorf("%s is required when metrics auth is enabled", EnvMetricsPassword))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getBoolEnv retrieves boolean environment variable with fallback to default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
