// README: Fare handlers: zone catalog, direct quotes, place search and route estimates.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rido/internal/modules/pricing"
	"rido/internal/service"
)

type FareHandler struct {
	planner *service.FarePlanner
	places  service.Geocoder
}

func NewFareHandler(planner *service.FarePlanner, places service.Geocoder) *FareHandler {
	return &FareHandler{planner: planner, places: places}
}

func (h *FareHandler) Zones(c *gin.Context) {
	catalog := h.planner.Engine().Catalog()
	writeJSON(c, http.StatusOK, gin.H{
		"zones":    catalog.Zones(),
		"match":    catalog.Mode(),
		"fallback": pricing.OtherZone(),
	})
}

type quoteReq struct {
	DistanceKm  *float64   `json:"distance_km" binding:"required"`
	DurationMin *float64   `json:"duration_min" binding:"required"`
	Pickup      string     `json:"pickup" binding:"required"`
	At          *time.Time `json:"at"`
}

func (h *FareHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "distance_km, duration_min and pickup are required")
		return
	}
	var at time.Time
	if req.At != nil {
		at = *req.At
	}
	q, err := h.planner.Quote(c.Request.Context(), *req.DistanceKm, *req.DurationMin, req.Pickup, at)
	if err != nil {
		writeFareError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"quote": q, "display": newFareView(q)})
}

type tripReq struct {
	Pickup string `json:"pickup" binding:"required"`
	Drop   string `json:"drop" binding:"required"`
}

func (h *FareHandler) Estimate(c *gin.Context) {
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
	writeJSON(c, http.StatusOK, gin.H{"estimate": est, "display": newFareView(est.Quote)})
}

func (h *FareHandler) SearchPlaces(c *gin.Context) {
	place, err := h.places.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeFareError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"place": place})
}
