package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const requestIDHeader = "X-Request-ID"

type requestEntry struct {
	path      string
	latency   time.Duration
	method    string
	status    int
	clientIP  string
	requestID string
	message   string
}

// Logger logs every control request. Probes from consul and prometheus go
// to debug, client errors to warn, server errors to error.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}
		c.Next()

		message := c.Errors.String()
		if message == "" {
			message = "Request"
		}
		logEntry(requestEntry{
			path:      path,
			latency:   time.Since(started),
			method:    c.Request.Method,
			status:    c.Writer.Status(),
			clientIP:  c.ClientIP(),
			requestID: c.GetHeader(requestIDHeader),
			message:   message,
		})
	}
}

func logEntry(entry requestEntry) {
	var event *zerolog.Event
	switch {
	case entry.status >= 500:
		event = log.Error()
	case entry.status >= 400:
		event = log.Warn()
	case entry.path == "/health" || entry.path == "/metrics":
		event = log.Debug()
	default:
		event = log.Info()
	}
	if entry.requestID != "" {
		event = event.Str("requestId", entry.requestID)
	}
	event.Str("method", entry.method).
		Str("path", entry.path).
		Dur("resp_time", entry.latency).
		Int("status", entry.status).
		Str("client_ip", entry.clientIP).
		Msg(entry.message)
}
