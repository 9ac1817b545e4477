package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one line per request with its route, status and latency.
// Server errors log at error level, client errors at warn, the rest at info.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"route":    c.FullPath(),
			"status":   status,
			"duration": time.Since(start).String(),
			"client":   c.ClientIP(),
		}

		if rid, exists := c.Get(RequestIDKey); exists {
			fields["request_id"] = rid
		}

		if cid := c.GetString(ClientRequestIDKey); cid != "" {
			fields["client_request_id"] = cid
		}

		entry := log.WithFields(fields)

		switch {
		case status >= 500:
			entry.Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
