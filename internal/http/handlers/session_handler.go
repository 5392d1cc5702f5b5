// README: Mock login handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rido/internal/modules/session"
)

type SessionHandler struct {
	sessions *session.Service
}

func NewSessionHandler(svc *session.Service) *SessionHandler {
	return &SessionHandler{sessions: svc}
}

type loginReq struct {
	Handle string `json:"handle" binding:"required"`
}

func (h *SessionHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "enter phone or email")
		return
	}
	sess, err := h.sessions.Login(c.Request.Context(), req.Handle)
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"token": sess.Token, "handle": sess.Handle})
}
