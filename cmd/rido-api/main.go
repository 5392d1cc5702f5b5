// README: Entry point; loads config, wires maps, pricing, sessions and rides, serves HTTP until signalled.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rido/internal/config"
	httptransport "rido/internal/http"
	"rido/internal/infra"
	"rido/internal/maps"
	"rido/internal/modules/pricing"
	"rido/internal/modules/ride"
	"rido/internal/modules/session"
	"rido/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := cfg.Pricing.Location()
	if err != nil {
		log.Fatal(err)
	}

	redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
	if err != nil {
		log.Fatal(err)
	}
	defer redisClient.Close()

	var quoteStore *pricing.Store
	if cfg.DB.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Fatal(err)
		}
		defer dbPool.Close()
		quoteStore = pricing.NewStore(dbPool)
		if err := quoteStore.EnsureSchema(ctx); err != nil {
			log.Fatal(err)
		}
	} else {
		log.Printf("RIDO_DB_DSN not set; quote audit log disabled")
	}

	catalog, err := pricing.NewCatalog(pricing.MatchMode(cfg.Pricing.ZoneMatch), pricing.DefaultCatalog().Zones()...)
	if err != nil {
		log.Fatal(err)
	}
	engine, err := pricing.NewEngine(catalog, pricing.DefaultRates(), pricing.DefaultPeakWindows())
	if err != nil {
		log.Fatal(err)
	}
	pricingSvc := pricing.NewService(engine, quoteStore)

	places, err := maps.NewPlacesService(cfg.Maps.APIKey, cfg.Maps.City)
	if err != nil {
		log.Fatal(err)
	}
	routeSvc, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		log.Fatal(err)
	}
	routes := maps.NewCachedRouter(routeSvc, redisClient, cfg.Maps.RouteCacheTTL)

	planner := service.NewFarePlanner(places, routes, pricingSvc, loc)
	sessionSvc := session.NewService(session.NewRedisStore(redisClient), cfg.Session.TTL)
	rideSvc := ride.NewService(ride.NewRedisStore(redisClient), cfg.Ride.StepInterval, cfg.Ride.TTL)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Planner:     planner,
		Places:      places,
		Sessions:    sessionSvc,
		Rides:       rideSvc,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("rido-api listening on %s (zones matched by %s, peak hours in %s)", cfg.HTTP.Addr, catalog.Mode(), loc)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
