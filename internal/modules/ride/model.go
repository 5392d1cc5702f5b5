// README: Simulated ride aggregate and status definitions.
package ride

import (
	"time"

	"rido/internal/modules/pricing"
	"rido/internal/types"
)

type Status string

const (
	StatusInProgress      Status = "in_progress"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPaid            Status = "paid"
)

// AllowedTransitions represents the ride state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusInProgress:      {StatusAwaitingPayment},
	StatusAwaitingPayment: {StatusPaid},
}

func CanTransition(from, to Status) bool {
	for _, s := range AllowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentUPI  PaymentMethod = "upi"
	PaymentCard PaymentMethod = "card"
	PaymentCash PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentCard, PaymentCash:
		return true
	}
	return false
}

type Ride struct {
	ID            types.ID      `json:"id"`
	Handle        string        `json:"handle"`
	Pickup        string        `json:"pickup"`
	Drop          string        `json:"drop"`
	Points        []types.Point `json:"points"`
	Fare          pricing.Quote `json:"fare"`
	StepInterval  time.Duration `json:"step_interval"`
	Status        Status        `json:"status"`
	StartedAt     time.Time     `json:"started_at"`
	ArrivedAt     *time.Time    `json:"arrived_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
}

// Progress is a ride with the cab position derived for a point in time.
type Progress struct {
	Ride        Ride        `json:"ride"`
	Position    types.Point `json:"position"`
	Step        int         `json:"step"`
	Steps       int         `json:"steps"`
	RemainingKm float64     `json:"remaining_km"`
}
