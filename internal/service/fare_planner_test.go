package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rido/internal/maps"
	"rido/internal/modules/pricing"
	"rido/internal/types"
)

type fakeGeocoder struct {
	places map[string]maps.Place
	err    error
}

func (f *fakeGeocoder) Search(_ context.Context, query string) (maps.Place, error) {
	if f.err != nil {
		return maps.Place{}, f.err
	}
	p, ok := f.places[query]
	if !ok {
		return maps.Place{}, maps.ErrNotFound
	}
	return p, nil
}

type fakeRouter struct {
	route maps.Route
	err   error
	from  types.Point
	to    types.Point
}

func (f *fakeRouter) Route(_ context.Context, from, to types.Point) (maps.Route, error) {
	f.from, f.to = from, to
	return f.route, f.err
}

var ist = time.FixedZone("IST", 5*3600+1800)

func newTestPlanner(geo Geocoder, router maps.Router, now time.Time) *FarePlanner {
	p := NewFarePlanner(geo, router, pricing.NewService(pricing.DefaultEngine(), nil), ist)
	p.now = func() time.Time { return now }
	return p
}

func testPlaces() *fakeGeocoder {
	return &fakeGeocoder{places: map[string]maps.Place{
		"Whitefield": {
			Query:    "Whitefield",
			Address:  "Whitefield, Bengaluru, Karnataka, India",
			Position: types.Point{Lat: 12.9698, Lng: 77.7500},
		},
		"MG Road": {
			Query:    "MG Road",
			Address:  "Mahatma Gandhi Rd, Shanthala Nagar, Bengaluru",
			Position: types.Point{Lat: 12.9756, Lng: 77.6050},
		},
		"Majestic": {
			Query:    "Majestic",
			Address:  "Kempegowda Bus Station, Gandhi Nagar, Bengaluru",
			Position: types.Point{Lat: 12.9774, Lng: 77.5713},
		},
	}}
}

func TestFarePlanner_Estimate(t *testing.T) {
	router := &fakeRouter{route: maps.Route{DistanceKm: 10, DurationMin: 20}}
	// 03:30 UTC is 09:00 IST, inside the morning peak.
	p := newTestPlanner(testPlaces(), router, time.Date(2026, 2, 10, 3, 30, 0, 0, time.UTC))

	est, err := p.Estimate(context.Background(), "Whitefield", "MG Road")
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.ID == "" {
		t.Error("estimate has no id")
	}
	if router.from != (types.Point{Lat: 12.9698, Lng: 77.7500}) || router.to != (types.Point{Lat: 12.9756, Lng: 77.6050}) {
		t.Errorf("routed %+v -> %+v", router.from, router.to)
	}
	if est.Quote.ZoneName != "IT Corridor" || !est.Quote.SurgeApplied {
		t.Errorf("quote zone %s surge %v", est.Quote.ZoneName, est.Quote.SurgeApplied)
	}
	if est.Quote.RoundedTotal != 420 {
		t.Errorf("RoundedTotal = %d, want 420", est.Quote.RoundedTotal)
	}
	if est.Quote.QuotedAt.Location() != ist {
		t.Errorf("quote time not in service zone: %v", est.Quote.QuotedAt)
	}
}

func TestFarePlanner_EstimateUsesTypedPickupName(t *testing.T) {
	// The geocoder spells out "Mahatma Gandhi Rd"; the typed "MG Road" must still hit Central.
	router := &fakeRouter{route: maps.Route{DistanceKm: 0, DurationMin: 0}}
	p := newTestPlanner(testPlaces(), router, time.Date(2026, 2, 10, 12, 0, 0, 0, ist))

	est, err := p.Estimate(context.Background(), "MG Road", "Majestic")
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if est.Quote.ZoneName != "Central" || est.Quote.RoundedTotal != 78 {
		t.Errorf("got %s / %d, want Central / 78", est.Quote.ZoneName, est.Quote.RoundedTotal)
	}
}

func TestFarePlanner_EstimateErrors(t *testing.T) {
	tests := []struct {
		name    string
		geo     *fakeGeocoder
		router  *fakeRouter
		pickup  string
		drop    string
		wantErr error
	}{
		{"unknown pickup", testPlaces(), &fakeRouter{}, "Atlantis", "MG Road", maps.ErrNotFound},
		{"unknown drop", testPlaces(), &fakeRouter{}, "MG Road", "Atlantis", maps.ErrNotFound},
		{"geocoder down", &fakeGeocoder{err: maps.ErrUpstream}, &fakeRouter{}, "MG Road", "Majestic", maps.ErrUpstream},
		{"no route", testPlaces(), &fakeRouter{err: maps.ErrNoRoute}, "MG Road", "Majestic", maps.ErrNoRoute},
		{"negative route distance", testPlaces(), &fakeRouter{route: maps.Route{DistanceKm: -1}}, "MG Road", "Majestic", pricing.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPlanner(tt.geo, tt.router, time.Date(2026, 2, 10, 12, 0, 0, 0, ist))
			_, err := p.Estimate(context.Background(), tt.pickup, tt.drop)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Estimate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFarePlanner_Quote(t *testing.T) {
	p := newTestPlanner(testPlaces(), &fakeRouter{}, time.Date(2026, 2, 10, 16, 30, 0, 0, time.UTC)) // 22:00 IST

	q, err := p.Quote(context.Background(), 5, 10, "Unknown Area", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if q.RoundedTotal != 130 || q.SurgeApplied {
		t.Errorf("now quote = %d surge %v, want 130 without surge", q.RoundedTotal, q.SurgeApplied)
	}

	// An explicit time is read on the service clock: 12:00 UTC is 17:30 IST.
	q, err = p.Quote(context.Background(), 5, 10, "Unknown Area", time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if q.RoundedTotal != 195 || !q.SurgeApplied {
		t.Errorf("explicit quote = %d surge %v, want 195 with surge", q.RoundedTotal, q.SurgeApplied)
	}
}

func TestZoneLabel(t *testing.T) {
	tests := []struct {
		place maps.Place
		want  string
	}{
		{maps.Place{Query: "MG Road"}, "MG Road"},
		{maps.Place{Query: "Hebbal", Address: "Hebbal, Bengaluru"}, "Hebbal, Bengaluru"},
		{maps.Place{Query: "MG Road", Address: "Mahatma Gandhi Rd"}, "MG Road, Mahatma Gandhi Rd"},
		{maps.Place{Address: "Cubbon Park"}, "Cubbon Park"},
	}
	for _, tt := range tests {
		if got := zoneLabel(tt.place); got != tt.want {
			t.Errorf("zoneLabel(%+v) = %q, want %q", tt.place, got, tt.want)
		}
	}
}
