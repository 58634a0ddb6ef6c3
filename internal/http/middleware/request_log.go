package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/vamshavali-backend/internal/platform/logger"
)

// RequestLogger writes one line per request; level follows the status class.
// Must run after AttachTraceContext so the line carries the request id.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("component", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		if status >= 400 {
			if q := c.Request.URL.RawQuery; q != "" {
				fields = append(fields, "query", q)
			}
			if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
				fields = append(fields, "error", errs.String())
			}
		}

		reqLog := log.For(c.Request.Context())
		switch {
		case status >= 500:
			reqLog.Error("request failed", fields...)
		case status >= 400:
			reqLog.Warn("request rejected", fields...)
		default:
			reqLog.Info("request served", fields...)
		}
	}
}
