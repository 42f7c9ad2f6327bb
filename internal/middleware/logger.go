package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestID"
)

// RequestID propagates an incoming X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(requestIDKey, reqID)
		c.Writer.Header().Set(RequestIDHeader, reqID)
		c.Next()
	}
}

// RequestLogger writes one entry per request once the handler chain has run.
// Cart mutations and catalog reloads log at info; reads of the page, the
// event stream and the scrape endpoints drop to debug unless they fail.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		entry := logger.WithFields(logrus.Fields{
			"request_id":  c.GetString(requestIDKey),
			"method":      c.Request.Method,
			"route":       route,
			"path":        c.Request.URL.Path,
			"status_code": status,
			"bytes":       c.Writer.Size(),
			"latency_ms":  time.Since(started).Milliseconds(),
			"remote_ip":   c.ClientIP(),
		})
		if q := c.Request.URL.RawQuery; q != "" {
			entry = entry.WithField("query", q)
		}

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.String())
		case status >= http.StatusInternalServerError:
			entry.Error("Request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("Request rejected")
		case c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead:
			entry.Debug("Request served")
		default:
			entry.Info("Request served")
		}
	}
}
