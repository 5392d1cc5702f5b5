// README: Common value objects shared across modules (money, ids, coordinates).
package types

// CurrencyINR is the only currency the service quotes in.
const CurrencyINR = "INR"

type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type ID string

type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
