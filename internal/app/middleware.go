package app

import (
	"time"

	"github.com/garyellow/protein-linebot-go/internal/ctxutil"
	"github.com/garyellow/protein-linebot-go/internal/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDHeaders are checked in order; a new UUID is used when all are empty.
var requestIDHeaders = []string{"X-Request-Id", "X-Correlation-Id", "X-Line-Request-Id"}

// securityHeadersMiddleware adds security headers to responses.
func securityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Content-Security-Policy", "default-src 'none'")
		c.Next()
	}
}

func requestID(c *gin.Context) string {
	for _, h := range requestIDHeaders {
		if id := c.GetHeader(h); id != "" {
			return id
		}
	}
	return uuid.NewString()
}

// loggingMiddleware tags the request context with a request ID and logs
// one line per request, with the level chosen by status code.
func loggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		id := requestID(c)

		c.Request = c.Request.WithContext(ctxutil.WithRequestID(c.Request.Context(), id))
		c.Header("X-Request-Id", id)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithField("http_method", c.Request.Method).
			WithField("http_path", path).
			WithField("http_status", status).
			WithField("duration_ms", time.Since(start).Milliseconds()).
			WithField("client_ip", c.ClientIP())

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			entry.ErrorContext(ctx, "HTTP request failed")
		case status == 404:
			entry.DebugContext(ctx, "HTTP request not found")
		case status >= 400:
			entry.WarnContext(ctx, "HTTP request rejected")
		default:
			entry.DebugContext(ctx, "HTTP request completed")
		}
	}
}
