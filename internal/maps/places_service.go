package maps

import (
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"

	"rido/internal/types"
)

// Place represents a resolved search result.
type Place struct {
	Query    string      `json:"query"`
	Address  string      `json:"address"`
	PlaceID  string      `json:"place_id"`
	Position types.Point `json:"position"`
}

type geocodingClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// PlacesService resolves free text to a single place inside the service city.
type PlacesService struct {
	client geocodingClient
	city   string
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey, city string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, city: city}, nil
}

// Search returns the best match for query. The city name is appended so that
// short names like "MG Road" resolve locally.
func (s *PlacesService) Search(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Place{}, ErrBadQuery
	}

	address := query
	if s.city != "" && !strings.Contains(strings.ToLower(query), strings.ToLower(s.city)) {
		address = query + ", " + s.city
	}

	results, err := s.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:  address,
		Region:   "in",
		Language: "en",
	})
	if err != nil {
		return Place{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if len(results) == 0 {
		return Place{}, fmt.Errorf("%w: %q in %s", ErrNotFound, query, s.city)
	}

	best := results[0]
	return Place{
		Query:   query,
		Address: best.FormattedAddress,
		PlaceID: best.PlaceID,
		Position: types.Point{
			Lat: best.Geometry.Location.Lat,
			Lng: best.Geometry.Location.Lng,
		},
	}, nil
}
