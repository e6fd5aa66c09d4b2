package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/integrity-backend/internal/platform/ctxutil"
	"github.com/yungbote/integrity-backend/internal/platform/logger"
)

const eventsRoute = "/api/gamification/events"

// RequestLogger writes one line per request. 5xx logs at error, 4xx at warn, and the
// SSE stream only on failure since it stays open for the whole session.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		fields := append([]interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case route == eventsRoute:
			log.Debug("Event stream closed", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}
