package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"rido/internal/maps"
	"rido/internal/modules/pricing"
	"rido/internal/types"
)

type Geocoder interface {
	Search(ctx context.Context, query string) (maps.Place, error)
}

// Estimate is a priced trip between two resolved places.
type Estimate struct {
	ID     types.ID      `json:"id"`
	Pickup maps.Place    `json:"pickup"`
	Drop   maps.Place    `json:"drop"`
	Route  maps.Route    `json:"route"`
	Quote  pricing.Quote `json:"quote"`
}

// FarePlanner runs the route-to-fare pipeline: geocode, route, price, audit.
type FarePlanner struct {
	places  Geocoder
	routes  maps.Router
	pricing *pricing.Service
	loc     *time.Location
	now     func() time.Time
}

// NewFarePlanner creates a FarePlanner. loc is the zone whose wall clock
// decides peak hours.
func NewFarePlanner(places Geocoder, routes maps.Router, pricingSvc *pricing.Service, loc *time.Location) *FarePlanner {
	if loc == nil {
		loc = time.Local
	}
	return &FarePlanner{
		places:  places,
		routes:  routes,
		pricing: pricingSvc,
		loc:     loc,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for replaying quotes at a fixed time.
func (p *FarePlanner) WithClock(now func() time.Time) *FarePlanner {
	p.now = now
	return p
}

func (p *FarePlanner) Engine() pricing.Engine {
	return p.pricing.Engine()
}

// Now returns the planner clock in the service time zone.
func (p *FarePlanner) Now() time.Time {
	return p.now().In(p.loc)
}

// Quote prices already-known route numbers. A zero at means now.
func (p *FarePlanner) Quote(ctx context.Context, distanceKm, durationMin float64, pickup string, at time.Time) (pricing.Quote, error) {
	if at.IsZero() {
		at = p.Now()
	} else {
		at = at.In(p.loc)
	}
	return p.pricing.Estimate(ctx, pricing.PricingRequest{
		DistanceKm:  distanceKm,
		DurationMin: durationMin,
		Pickup:      pickup,
		RequestTime: at,
	})
}

// Estimate resolves both places, fetches the road route and prices it.
// The audit record is best effort.
func (p *FarePlanner) Estimate(ctx context.Context, pickupText, dropText string) (Estimate, error) {
	pickup, err := p.places.Search(ctx, pickupText)
	if err != nil {
		return Estimate{}, fmt.Errorf("pickup: %w", err)
	}
	drop, err := p.places.Search(ctx, dropText)
	if err != nil {
		return Estimate{}, fmt.Errorf("drop: %w", err)
	}

	route, err := p.routes.Route(ctx, pickup.Position, drop.Position)
	if err != nil {
		return Estimate{}, fmt.Errorf("route: %w", err)
	}

	quote, err := p.Quote(ctx, route.DistanceKm, route.DurationMin, zoneLabel(pickup), time.Time{})
	if err != nil {
		return Estimate{}, err
	}

	est := Estimate{
		ID:     types.ID(uuid.NewString()),
		Pickup: pickup,
		Drop:   drop,
		Route:  route,
		Quote:  quote,
	}
	rec := pricing.QuoteRecord{ID: est.ID, Pickup: pickup.Address, Drop: drop.Address, Quote: quote}
	if err := p.pricing.Record(ctx, rec); err != nil {
		log.Printf("fare planner: audit quote %s: %v", est.ID, err)
	}
	return est, nil
}

// zoneLabel is the text zones are detected in: what the rider typed plus the
// geocoder's address, so either spelling of an area name can match.
func zoneLabel(p maps.Place) string {
	switch {
	case p.Address == "":
		return p.Query
	case p.Query == "" || strings.Contains(p.Address, p.Query):
		return p.Address
	default:
		return p.Query + ", " + p.Address
	}
}
