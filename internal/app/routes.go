package app

import (
	"net/http"

	"github.com/garyellow/protein-linebot-go/internal/buildinfo"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *Application) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if a.sentryEnabled {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	router.GET("/", a.livenessText)
	router.HEAD("/", a.livenessText)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.POST("/callback", a.webhookHandler.Handle)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsAuthEnabled, a.cfg.MetricsUsername, a.cfg.MetricsPassword, a.metrics),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	return router
}

// livenessText answers with the fixed plain-text body.
func (a *Application) livenessText(c *gin.Context) {
	c.String(http.StatusOK, a.cfg.LivenessMessage)
}

func (a *Application) livenessCheck(c *gin.Context) {
	body := gin.H{
		"status":  "alive",
		"profile": a.processor.Profile(),
	}
	if buildinfo.Version != "" {
		body["version"] = buildinfo.Version
	}
	c.JSON(http.StatusOK, body)
}
