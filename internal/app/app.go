// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/garyellow/protein-linebot-go/internal/bot"
	"github.com/garyellow/protein-linebot-go/internal/buildinfo"
	"github.com/garyellow/protein-linebot-go/internal/config"
	domerrors "github.com/garyellow/protein-linebot-go/internal/errors"
	"github.com/garyellow/protein-linebot-go/internal/logger"
	"github.com/garyellow/protein-linebot-go/internal/metrics"
	"github.com/garyellow/protein-linebot-go/internal/protein"
	"github.com/garyellow/protein-linebot-go/internal/sentry"
	"github.com/garyellow/protein-linebot-go/internal/webhook"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	processor      *bot.Processor
	webhookHandler *webhook.Handler
	server         *http.Server
	sentryEnabled  bool
}

// Option customizes Initialize.
type Option func(*options)

type options struct {
	logWriter io.Writer
	replier   webhook.Replier
}

// WithLogWriter sends local JSON logs to w instead of stdout.
func WithLogWriter(w io.Writer) Option {
	return func(o *options) { o.logWriter = w }
}

// WithReplier replaces the LINE messaging API client.
func WithReplier(r webhook.Replier) Option {
	return func(o *options) { o.replier = r }
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config, opts ...Option) (*Application, error) {
	o := options{logWriter: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	log := logger.NewWithOptions(cfg.LogLevel, o.logWriter, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", cfg.ServiceName)
	host, _ := os.Hostname()
	if host != "" {
		log = log.WithField("instance_id", host)
	}
	for k, v := range buildinfo.Fields() {
		log = log.WithField(k, v)
	}

	// Package-level slog.*Context() calls get trace IDs too.
	slog.SetDefault(log.Logger)

	log.InfoContext(ctx, "Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Initialize(sentry.Config{
			Token:       cfg.Sentry.Token,
			Host:        cfg.Sentry.Host,
			Environment: cfg.Sentry.Environment,
			Release:     buildinfo.Version,
			ServerName:  host,
			SampleRate:  cfg.Sentry.SampleRate,
		}); err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
		log.WithField("environment", cfg.Sentry.Environment).Info("Sentry error tracking enabled")
	}

	profile, err := loadProfile(cfg)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	classifier, err := protein.NewClassifier(profile)
	if err != nil {
		return nil, fmt.Errorf("classifier: %w", err)
	}
	log.WithField("profile", classifier.Profile()).Info("Reply profile loaded")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)
	metrics.WatchLogDrops(registry, log.Dropped)

	processor := bot.NewProcessor(bot.ProcessorConfig{
		Classifier:  classifier,
		Logger:      log.WithModule("bot"),
		Metrics:     m,
		MaxMessages: cfg.MaxMessagesPerReply,
	})

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		ChannelSecret:       cfg.LineChannelSecret,
		ChannelToken:        cfg.LineChannelToken,
		Replier:             o.replier,
		Processor:           processor,
		Metrics:             m,
		Logger:              log.WithModule("webhook"),
		ProcessingTimeout:   cfg.WebhookTimeout,
		MaxMessagesPerReply: cfg.MaxMessagesPerReply,
		MaxEventsPerWebhook: cfg.MaxEventsPerWebhook,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook: %w", err)
	}

	app := &Application{
		cfg:            cfg,
		logger:         log,
		metrics:        m,
		registry:       registry,
		processor:      processor,
		webhookHandler: webhookHandler,
		sentryEnabled:  sentry.IsEnabled(),
	}

	gin.SetMode(gin.ReleaseMode)
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.newRouter(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// loadProfile prefers a profile file over the built-in profile name.
func loadProfile(cfg *config.Config) (protein.Profile, error) {
	if cfg.ProfileFile != "" {
		return protein.LoadProfile(cfg.ProfileFile)
	}
	profile, ok := protein.BuiltinProfile(cfg.Profile)
	if !ok {
		return protein.Profile{}, fmt.Errorf("%w: %q", domerrors.ErrUnknownProfile, cfg.Profile)
	}
	return profile, nil
}

// Handler returns the HTTP handler serving all routes.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until ctx is canceled or SIGINT/SIGTERM arrives, then
// shuts down gracefully: stop accepting requests, let in-flight webhook
// replies finish, flush Sentry, drain the remote log queue.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")
		return a.shutdown()
	})

	return g.Wait()
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	start := time.Now()
	a.logger.Info("Stopping HTTP server...")
	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, err)
	}

	if a.sentryEnabled && !sentry.Flush(config.SentryFlush) {
		a.logger.Warn("Sentry flush timed out")
	}

	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Shutdown complete")

	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("logger shutdown: %w", err))
	}
	return errors.Join(errs...)
}
