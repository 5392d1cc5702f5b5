package handlers

import (
	"fmt"
	"math"
	"strconv"

	"rido/internal/modules/pricing"
	"rido/internal/types"
)

// fareView is the fare breakdown as the booking panel shows it.
type fareView struct {
	Distance       string `json:"distance"`
	Time           string `json:"time"`
	BaseFare       string `json:"base_fare"`
	Zone           string `json:"zone"`
	ZoneMultiplier string `json:"zone_multiplier"`
	Surge          bool   `json:"surge"`
	SurgeText      string `json:"surge_text"`
	Total          string `json:"total"`
}

func newFareView(q pricing.Quote) fareView {
	surge := "No traffic surge"
	if q.SurgeApplied {
		surge = "Traffic surge applied"
	}
	return fareView{
		Distance:       fmt.Sprintf("%.2f km", q.DistanceKm),
		Time:           fmt.Sprintf("%d min", int64(math.Round(q.DurationMin))),
		BaseFare:       money(q.Currency, q.BaseFare),
		Zone:           q.ZoneName,
		ZoneMultiplier: "x" + strconv.FormatFloat(q.ZoneMultiplier, 'f', -1, 64),
		Surge:          q.SurgeApplied,
		SurgeText:      surge,
		Total:          money(q.Currency, float64(q.RoundedTotal)),
	}
}

func money(currency string, amount float64) string {
	symbol := currency + " "
	if currency == types.CurrencyINR {
		symbol = "₹"
	}
	return symbol + strconv.FormatFloat(amount, 'f', -1, 64)
}
