// README: Request logging middleware; tags each request with an id and logs route, rider and latency.
package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxKeyRequestID = "rido.request_id"
	headerRequestID = "X-Request-ID"
)

func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxKeyRequestID, id)
		c.Header(headerRequestID, id)

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		rider := CallerHandle(c)
		if rider == "" {
			rider = "-"
		}
		log.Printf("req=%s %s %s status=%d rider=%s latency=%s", id, c.Request.Method, route, c.Writer.Status(), rider, time.Since(start))
		for _, e := range c.Errors {
			log.Printf("req=%s error: %v", id, e.Err)
		}
	}
}

// RequestID returns the id Logging assigned to the request.
func RequestID(c *gin.Context) string {
	return c.GetString(ctxKeyRequestID)
}
