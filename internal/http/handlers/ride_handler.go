// README: Ride handlers for booking, progress and mock payment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rido/internal/http/middleware"
	"rido/internal/modules/ride"
	"rido/internal/service"
	"rido/internal/types"
)

type RideHandler struct {
	planner *service.FarePlanner
	rides   *ride.Service
}

func NewRideHandler(planner *service.FarePlanner, rides *ride.Service) *RideHandler {
	return &RideHandler{planner: planner, rides: rides}
}

// Book prices the trip again at booking time and starts the cab.
func (h *RideHandler) Book(c *gin.Context) {
	var req tripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "pickup and drop are required")
		return
	}
	est, err := h.planner.Estimate(c.Request.Context(), req.Pickup, req.Drop)
	if err != nil {
		writeFareError(c, err)
		return
	}
	r, err := h.rides.Book(c.Request.Context(), ride.BookCommand{
		Handle: middleware.CallerHandle(c),
		Pickup: est.Pickup.Address,
		Drop:   est.Drop.Address,
		Points: est.Route.Points,
		Fare:   est.Quote,
	})
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{"ride": r, "display": newFareView(r.Fare)})
}

func (h *RideHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	p, err := h.rides.Get(c.Request.Context(), middleware.CallerHandle(c), types.ID(id))
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, p)
}

type payReq struct {
	Method string `json:"method" binding:"required,oneof=upi card cash"`
}

func (h *RideHandler) Pay(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing ride id")
		return
	}
	var req payReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "method must be one of upi, card, cash")
		return
	}
	r, err := h.rides.Pay(c.Request.Context(), middleware.CallerHandle(c), types.ID(id), ride.PaymentMethod(req.Method))
	if err != nil {
		writeRideError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"ride": r, "message": "Payment successful via " + string(r.PaymentMethod)})
}
