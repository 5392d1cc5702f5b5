// README: Pricing engine; pure fare calculation from distance, zone and time of day.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrInvalidInput = errors.New("invalid input")

// Engine holds the immutable pricing configuration. It is safe for concurrent use.
type Engine struct {
	catalog Catalog
	rates   Rates
	peaks   []PeakWindow
}

func NewEngine(catalog Catalog, rates Rates, peaks []PeakWindow) (Engine, error) {
	if !finite(rates.BaseFare) || rates.BaseFare < 0 || !finite(rates.PerKm) || rates.PerKm < 0 {
		return Engine{}, fmt.Errorf("pricing: rates must be non-negative: %+v", rates)
	}
	if !finite(rates.Surge) || rates.Surge < 1 {
		return Engine{}, fmt.Errorf("pricing: surge %v below 1", rates.Surge)
	}
	for _, w := range peaks {
		if w.From < 0 || w.To > 23 || w.From > w.To {
			return Engine{}, fmt.Errorf("pricing: bad peak window %d-%d", w.From, w.To)
		}
	}
	return Engine{
		catalog: catalog,
		rates:   rates,
		peaks:   append([]PeakWindow(nil), peaks...),
	}, nil
}

// DefaultEngine prices with the Bengaluru catalog, default rates and peak hours.
func DefaultEngine() Engine {
	e, err := NewEngine(DefaultCatalog(), DefaultRates(), DefaultPeakWindows())
	if err != nil {
		panic(err)
	}
	return e
}

func (e Engine) Catalog() Catalog { return e.catalog }

func (e Engine) Rates() Rates { return e.rates }

func (e Engine) DetectZone(locationText string) Zone {
	return e.catalog.DetectZone(locationText)
}

// IsPeak reports whether the clock hour of now, in now's own location, falls
// in a peak window.
func (e Engine) IsPeak(now time.Time) bool {
	h := now.Hour()
	for _, w := range e.peaks {
		if w.Contains(h) {
			return true
		}
	}
	return false
}

func (e Engine) TrafficMultiplier(now time.Time) float64 {
	if e.IsPeak(now) {
		return e.rates.Surge
	}
	return 1.0
}

// Calculate prices a trip:
//
//	total = (base + distanceKm*perKm) * zone multiplier * traffic multiplier
func (e Engine) Calculate(distanceKm, durationMin float64, locationText string, now time.Time) (Quote, error) {
	if !finite(distanceKm) || distanceKm < 0 {
		return Quote{}, fmt.Errorf("%w: distance %v km", ErrInvalidInput, distanceKm)
	}
	if !finite(durationMin) || durationMin < 0 {
		return Quote{}, fmt.Errorf("%w: duration %v min", ErrInvalidInput, durationMin)
	}
	if strings.TrimSpace(locationText) == "" {
		return Quote{}, fmt.Errorf("%w: empty pickup location", ErrInvalidInput)
	}

	zone := e.DetectZone(locationText)
	traffic := e.TrafficMultiplier(now)
	total := (e.rates.BaseFare + distanceKm*e.rates.PerKm) * zone.Multiplier * traffic
	// The rounded total must fit in an int64.
	if !finite(total) || total >= math.MaxInt64 {
		return Quote{}, fmt.Errorf("%w: distance %v km prices out of range", ErrInvalidInput, distanceKm)
	}

	return Quote{
		DistanceKm:        distanceKm,
		DurationMin:       durationMin,
		ZoneName:          zone.Name,
		ZoneMultiplier:    zone.Multiplier,
		TrafficMultiplier: traffic,
		SurgeApplied:      traffic > 1,
		BaseFare:          e.rates.BaseFare,
		PerKm:             e.rates.PerKm,
		TotalFare:         total,
		RoundedTotal:      int64(math.Round(total)),
		Currency:          e.rates.Currency,
		QuotedAt:          now,
	}, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
