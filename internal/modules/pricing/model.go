// README: Zone, rate, peak window and fare quote definitions.
package pricing

import (
	"time"

	"rido/internal/types"
)

// OtherZoneName names the fallback zone used when no catalog zone matches.
const OtherZoneName = "Other"

type Zone struct {
	Name       string   `json:"name"`
	Areas      []string `json:"areas"`
	Multiplier float64  `json:"multiplier"`
}

// OtherZone is the catalog-external fallback zone.
func OtherZone() Zone {
	return Zone{Name: OtherZoneName, Areas: []string{}, Multiplier: 1.0}
}

func (z Zone) clone() Zone {
	z.Areas = append([]string(nil), z.Areas...)
	return z
}

type Rates struct {
	BaseFare float64
	PerKm    float64
	Surge    float64
	Currency string
}

func DefaultRates() Rates {
	return Rates{
		BaseFare: 60,
		PerKm:    14,
		Surge:    1.5,
		Currency: types.CurrencyINR,
	}
}

// PeakWindow is an inclusive range of clock hours (0-23).
type PeakWindow struct {
	From int
	To   int
}

func (w PeakWindow) Contains(hour int) bool {
	return hour >= w.From && hour <= w.To
}

func DefaultPeakWindows() []PeakWindow {
	return []PeakWindow{
		{From: 8, To: 11},
		{From: 17, To: 21},
	}
}

type PricingRequest struct {
	DistanceKm  float64
	DurationMin float64
	Pickup      string
	RequestTime time.Time
}

// Quote is the full breakdown of one fare calculation.
type Quote struct {
	DistanceKm        float64   `json:"distance_km"`
	DurationMin       float64   `json:"duration_min"`
	ZoneName          string    `json:"zone_name"`
	ZoneMultiplier    float64   `json:"zone_multiplier"`
	TrafficMultiplier float64   `json:"traffic_multiplier"`
	SurgeApplied      bool      `json:"surge_applied"`
	BaseFare          float64   `json:"base_fare"`
	PerKm             float64   `json:"per_km"`
	TotalFare         float64   `json:"total_fare"`
	RoundedTotal      int64     `json:"rounded_total"`
	Currency          string    `json:"currency"`
	QuotedAt          time.Time `json:"quoted_at"`
}

func (q Quote) Total() types.Money {
	return types.Money{Amount: q.RoundedTotal, Currency: q.Currency}
}

// QuoteRecord is one row of the quote audit log.
type QuoteRecord struct {
	ID     types.ID
	Pickup string
	Drop   string
	Quote  Quote
}
