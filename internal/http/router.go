// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"rido/internal/http/handlers"
	"rido/internal/http/middleware"
	"rido/internal/modules/ride"
	"rido/internal/modules/session"
	"rido/internal/service"
)

type RouterDeps struct {
	Planner     *service.FarePlanner
	Places      service.Geocoder
	Sessions    *session.Service
	Rides       *ride.Service
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery(), corsMiddleware(deps.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	api := r.Group("/api")

	fareHandler := handlers.NewFareHandler(deps.Planner, deps.Places)
	api.GET("/zones", fareHandler.Zones)
	api.GET("/places/search", fareHandler.SearchPlaces)
	api.POST("/fares/quote", fareHandler.Quote)
	api.POST("/fares/estimate", fareHandler.Estimate)

	sessionHandler := handlers.NewSessionHandler(deps.Sessions)
	api.POST("/session/login", sessionHandler.Login)

	rideHandler := handlers.NewRideHandler(deps.Planner, deps.Rides)
	rides := api.Group("/rides", middleware.Auth(deps.Sessions))
	rides.POST("", rideHandler.Book)
	rides.GET("/:id", rideHandler.Get)
	rides.POST("/:id/pay", rideHandler.Pay)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
