// README: Session middleware; resolves the bearer token issued by mock login.
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rido/internal/modules/session"
)

const ctxKeyHandle = "rido.handle"

// SessionLookup resolves a login token to its session.
type SessionLookup interface {
	Lookup(ctx context.Context, token string) (session.Session, error)
}

// Auth rejects requests without a live session token in the Authorization header.
func Auth(sessions SessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		sess, err := sessions.Lookup(c.Request.Context(), strings.TrimSpace(token))
		if errors.Is(err, session.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		if err != nil {
			log.Printf("session lookup: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.Set(ctxKeyHandle, sess.Handle)
		c.Next()
	}
}

// CallerHandle returns the phone or email of the logged-in rider.
func CallerHandle(c *gin.Context) string {
	return c.GetString(ctxKeyHandle)
}
