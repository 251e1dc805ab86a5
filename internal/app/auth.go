package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/garyellow/protein-linebot-go/internal/metrics"
	"github.com/gin-gonic/gin"
)

// metricsAuthMiddleware enforces Basic Auth on /metrics when enabled.
// Rejections are counted as HTTP errors when m is non-nil.
func metricsAuthMiddleware(enabled bool, username, password string, m *metrics.Metrics) gin.HandlerFunc {
	reject := func(c *gin.Context) {
		if m != nil {
			m.RecordHTTPError("unauthorized", "metrics")
		}
		c.Header("WWW-Authenticate", `Basic realm="metrics"`)
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok {
			reject(c)
			return
		}

		// Evaluate both before branching so timing does not reveal which one failed
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !userMatch || !passMatch {
			reject(c)
			return
		}

		c.Next()
	}
}
