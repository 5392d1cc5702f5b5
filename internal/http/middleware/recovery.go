// README: Recovery middleware; a panicking handler answers 500 with the request id instead of dropping the connection.
package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
)

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			log.Printf("req=%s panic on %s %s: %v\n%s", RequestID(c), c.Request.Method, c.Request.URL.Path, rec, debug.Stack())
			body := gin.H{"error": "internal error"}
			if id := RequestID(c); id != "" {
				body["request_id"] = id
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, body)
		}()
		c.Next()
	}
}
