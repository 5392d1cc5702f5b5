package maps

import (
	"context"
	"errors"
	"fmt"

	"googlemaps.github.io/maps"

	"rido/internal/types"
)

var (
	ErrNoRoute  = errors.New("no route found")
	ErrNotFound = errors.New("place not found")
	ErrBadQuery = errors.New("empty search query")
	ErrUpstream = errors.New("maps api error")
)

// Route is a driving route reduced to what pricing and the ride simulation need.
type Route struct {
	DistanceKm  float64       `json:"distance_km"`
	DurationMin float64       `json:"duration_min"`
	Points      []types.Point `json:"points"`
}

type directionsClient interface {
	Directions(ctx context.Context, r *maps.DirectionsRequest) ([]maps.Route, []maps.GeocodedWaypoint, error)
}

// RouteService handles interactions with the Google Directions API.
type RouteService struct {
	client directionsClient
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// Route returns the first driving route between two coordinates. Distance
// and duration are summed over all legs; points come from the overview polyline.
func (s *RouteService) Route(ctx context.Context, from, to types.Point) (Route, error) {
	r := &maps.DirectionsRequest{
		Origin:      latLng(from),
		Destination: latLng(to),
		Mode:        maps.TravelModeDriving,
		Language:    "en",
		Region:      "in",
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Route{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Route{}, ErrNoRoute
	}

	var meters int
	var seconds float64
	for _, leg := range routes[0].Legs {
		meters += leg.Distance.Meters
		seconds += leg.Duration.Seconds()
	}

	points := []types.Point{from, to}
	if path, err := routes[0].OverviewPolyline.Decode(); err == nil && len(path) >= 2 {
		points = make([]types.Point, len(path))
		for i, p := range path {
			points[i] = types.Point{Lat: p.Lat, Lng: p.Lng}
		}
	}

	return Route{
		DistanceKm:  float64(meters) / 1000,
		DurationMin: seconds / 60,
		Points:      points,
	}, nil
}

func latLng(p types.Point) string {
	return fmt.Sprintf("%f,%f", p.Lat, p.Lng)
}
