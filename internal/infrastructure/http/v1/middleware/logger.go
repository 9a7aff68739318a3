package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"stockview/pkg/logger"
)

// Logger puts log into the request context and logs every request.
// Probe and scrape endpoints are logged at debug level.
func Logger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), log))
		c.Next()

		entry := log.WithContext(c.Request.Context())
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate).String(); errs != "" {
			fields = append(fields, "error", errs)
		}

		if strings.HasPrefix(path, "/health") || path == "/metrics" {
			entry.Debugw("http request", fields...)
			return
		}
		entry.Infow("http request", fields...)
	}
}
