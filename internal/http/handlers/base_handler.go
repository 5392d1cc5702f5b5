// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rido/internal/maps"
	"rido/internal/modules/pricing"
	"rido/internal/modules/ride"
	"rido/internal/modules/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeFareError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput), errors.Is(err, maps.ErrBadQuery):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, maps.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, maps.ErrNoRoute):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, maps.ErrUpstream):
		log.Printf("maps upstream: %v", err)
		writeError(c, http.StatusBadGateway, "maps service unavailable")
	default:
		log.Printf("fare error: %v", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

func writeRideError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ride.ErrBadRequest), errors.Is(err, session.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, ride.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, ride.ErrInvalidState), errors.Is(err, ride.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("ride error: %v", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
