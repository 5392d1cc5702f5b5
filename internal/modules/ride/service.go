// README: Ride service books simulated rides, derives cab progress and takes mock payment.
package ride

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"rido/internal/modules/pricing"
	"rido/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("ride not found")
	ErrInvalidState = errors.New("invalid state transition")
	// ErrConflict is returned by Store.Update when the stored status moved on.
	ErrConflict = errors.New("ride changed concurrently")
)

// maxUpdateAttempts bounds how often Pay re-reads a ride that changed underneath it.
const maxUpdateAttempts = 3

type Store interface {
	Save(ctx context.Context, r Ride, ttl time.Duration) error
	Get(ctx context.Context, id types.ID) (Ride, error)
	// Update stores r only while the stored ride still has status from.
	Update(ctx context.Context, r Ride, from Status, ttl time.Duration) error
}

type Service struct {
	store Store
	step  time.Duration
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates a ride service. step is how long the cab takes per
// route point; ttl bounds how long a ride is kept.
func NewService(store Store, step, ttl time.Duration) *Service {
	return &Service{store: store, step: step, ttl: ttl, now: time.Now}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

type BookCommand struct {
	Handle string
	Pickup string
	Drop   string
	Points []types.Point
	Fare   pricing.Quote
}

func (s *Service) Book(ctx context.Context, cmd BookCommand) (Ride, error) {
	if strings.TrimSpace(cmd.Handle) == "" || len(cmd.Points) == 0 {
		return Ride{}, ErrBadRequest
	}
	r := Ride{
		ID:           types.ID(uuid.NewString()),
		Handle:       cmd.Handle,
		Pickup:       cmd.Pickup,
		Drop:         cmd.Drop,
		Points:       cmd.Points,
		Fare:         cmd.Fare,
		StepInterval: s.step,
		Status:       StatusInProgress,
		StartedAt:    s.now().UTC(),
	}
	if err := s.store.Save(ctx, r, s.ttl); err != nil {
		return Ride{}, err
	}
	return r, nil
}

// Get returns the ride progress now. A ride whose cab has passed the last
// point moves to awaiting_payment.
func (s *Service) Get(ctx context.Context, handle string, id types.ID) (Progress, error) {
	r, err := s.load(ctx, handle, id)
	if err != nil {
		return Progress{}, err
	}
	now := s.now()
	p, changed := advance(r, now)
	if !changed {
		return p, nil
	}
	err = s.store.Update(ctx, p.Ride, r.Status, s.ttl)
	if errors.Is(err, ErrConflict) {
		// Another request (a payment or a parallel poll) wrote first; report what it stored.
		if r, err = s.load(ctx, handle, id); err != nil {
			return Progress{}, err
		}
		p, _ = advance(r, now)
		return p, nil
	}
	if err != nil {
		return Progress{}, err
	}
	return p, nil
}

func (s *Service) Pay(ctx context.Context, handle string, id types.ID, method PaymentMethod) (Ride, error) {
	if !method.Valid() {
		return Ride{}, ErrBadRequest
	}
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		r, err := s.load(ctx, handle, id)
		if err != nil {
			return Ride{}, err
		}
		stored := r.Status
		now := s.now()
		p, _ := advance(r, now)
		r = p.Ride
		if !CanTransition(r.Status, StatusPaid) {
			return Ride{}, ErrInvalidState
		}
		paidAt := now.UTC()
		r.Status = StatusPaid
		r.PaidAt = &paidAt
		r.PaymentMethod = method
		err = s.store.Update(ctx, r, stored, s.ttl)
		if errors.Is(err, ErrConflict) {
			continue
		}
		if err != nil {
			return Ride{}, err
		}
		return r, nil
	}
	return Ride{}, ErrConflict
}

func (s *Service) load(ctx context.Context, handle string, id types.ID) (Ride, error) {
	r, err := s.store.Get(ctx, id)
	if err != nil {
		return Ride{}, err
	}
	if r.Handle != handle {
		return Ride{}, ErrNotFound
	}
	return r, nil
}

// advance derives the cab step for now: one route point per step interval,
// arriving one interval after the last point.
func advance(r Ride, now time.Time) (Progress, bool) {
	steps := len(r.Points)
	step := steps
	if r.StepInterval > 0 {
		if elapsed := now.Sub(r.StartedAt); elapsed < 0 {
			step = 0
		} else if n := int64(elapsed / r.StepInterval); n < int64(steps) {
			step = int(n)
		}
	}

	changed := false
	if step >= steps && CanTransition(r.Status, StatusAwaitingPayment) {
		arrived := r.StartedAt.Add(time.Duration(steps) * r.StepInterval)
		r.Status = StatusAwaitingPayment
		r.ArrivedAt = &arrived
		changed = true
	}

	at := step
	if at > steps-1 {
		at = steps - 1
	}
	return Progress{
		Ride:        r,
		Position:    r.Points[at],
		Step:        at,
		Steps:       steps,
		RemainingKm: pathKm(r.Points[at:]),
	}, changed
}
