package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const loggerKey = "logger"

// RequestLogger attaches a request-scoped logger to the context and logs
// one line per request once it is served.
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLog := log.WithFields(logrus.Fields{
			"http.req.method": c.Request.Method,
			"http.req.path":   c.Request.URL.Path,
		})
		c.Set(loggerKey, reqLog)

		c.Next()

		entry := reqLog.WithFields(logrus.Fields{
			"http.resp.status": c.Writer.Status(),
			"http.resp.took":   time.Since(start).String(),
		})
		if uid, ok := c.Get("userID"); ok {
			entry = entry.WithField("user_id", uid)
		}
		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.String()).Error("request failed")
		case c.Writer.Status() >= 500:
			entry.Error("request served")
		default:
			entry.Debug("request served")
		}
	}
}

// Logger returns the request-scoped logger, or fallback when none is set.
func Logger(c *gin.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return fallback
}
