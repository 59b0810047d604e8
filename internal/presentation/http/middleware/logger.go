package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware tags every request with an ID and logs a one-line summary.
// Health probes are not logged; they would drown out real traffic.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		if c.Request.URL.Path == "/health" {
			return
		}

		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		rid := shortID(requestID)
		log.Printf("req=%s %s %s -> %d in %s from %s",
			rid,
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start).Round(time.Millisecond),
			c.ClientIP(),
		)

		for _, e := range c.Errors {
			log.Printf("req=%s error: %v", rid, e.Err)
		}
	}
}

// shortID truncates a request ID for log lines. Client-supplied IDs can be
// any length.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
