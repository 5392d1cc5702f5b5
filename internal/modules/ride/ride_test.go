package ride

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"rido/internal/modules/pricing"
	"rido/internal/types"
)

type memStore struct {
	mu    sync.Mutex
	rides map[types.ID]Ride
	saves int
	// stale, when set, is handed out by the next Get instead of the stored ride.
	stale *Ride
}

func newMemStore() *memStore {
	return &memStore{rides: map[types.ID]Ride{}}
}

func (m *memStore) Save(_ context.Context, r Ride, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rides[r.ID] = r
	m.saves++
	return nil
}

func (m *memStore) Get(_ context.Context, id types.ID) (Ride, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stale != nil && m.stale.ID == id {
		r := *m.stale
		m.stale = nil
		return r, nil
	}
	r, ok := m.rides[id]
	if !ok {
		return Ride{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) Update(_ context.Context, r Ride, from Status, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rides[r.ID]
	if !ok {
		return ErrNotFound
	}
	if cur.Status != from {
		return ErrConflict
	}
	m.rides[r.ID] = r
	m.saves++
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

var route = []types.Point{
	{Lat: 12.9756, Lng: 77.6050},
	{Lat: 12.9740, Lng: 77.6300},
	{Lat: 12.9720, Lng: 77.6800},
	{Lat: 12.9698, Lng: 77.7500},
}

func newTestService(store Store) (*Service, *clock) {
	c := &clock{t: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)}
	svc := NewService(store, 40*time.Millisecond, time.Hour)
	svc.now = c.now
	return svc, c
}

func book(t *testing.T, svc *Service) Ride {
	t.Helper()
	r, err := svc.Book(context.Background(), BookCommand{
		Handle: "rider@example.com",
		Pickup: "MG Road",
		Drop:   "Whitefield",
		Points: route,
		Fare:   pricing.Quote{RoundedTotal: 420, Currency: "INR"},
	})
	if err != nil {
		t.Fatalf("Book() error = %v", err)
	}
	return r
}

func TestCanTransition(t *testing.T) {
	if !CanTransition(StatusInProgress, StatusAwaitingPayment) || !CanTransition(StatusAwaitingPayment, StatusPaid) {
		t.Error("forward transitions rejected")
	}
	if CanTransition(StatusInProgress, StatusPaid) || CanTransition(StatusPaid, StatusInProgress) {
		t.Error("skipping or reversing transitions allowed")
	}
}

func TestBook(t *testing.T) {
	svc, c := newTestService(newMemStore())
	r := book(t, svc)
	if r.ID == "" || r.Status != StatusInProgress || !r.StartedAt.Equal(c.t) {
		t.Errorf("ride = %+v", r)
	}
	if r.StepInterval != 40*time.Millisecond {
		t.Errorf("StepInterval = %v", r.StepInterval)
	}

	for _, cmd := range []BookCommand{
		{Handle: "", Points: route},
		{Handle: "rider@example.com"},
	} {
		if _, err := svc.Book(context.Background(), cmd); !errors.Is(err, ErrBadRequest) {
			t.Errorf("Book(%+v) error = %v, want ErrBadRequest", cmd, err)
		}
	}
}

func TestGet_CabAdvancesAlongRoute(t *testing.T) {
	store := newMemStore()
	svc, c := newTestService(store)
	r := book(t, svc)
	ctx := context.Background()

	for step := 0; step < len(route); step++ {
		p, err := svc.Get(ctx, r.Handle, r.ID)
		if err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		if p.Step != step || p.Position != route[step] {
			t.Fatalf("step %d: got step %d at %+v", step, p.Step, p.Position)
		}
		if p.Ride.Status != StatusInProgress {
			t.Fatalf("step %d: status %s", step, p.Ride.Status)
		}
		if want := pathKm(route[step:]); p.RemainingKm != want {
			t.Fatalf("step %d: remaining %f, want %f", step, p.RemainingKm, want)
		}
		c.advance(40 * time.Millisecond)
	}

	p, err := svc.Get(ctx, r.Handle, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Ride.Status != StatusAwaitingPayment || p.Step != len(route)-1 || p.RemainingKm != 0 {
		t.Fatalf("after last point: %+v", p)
	}
	if p.Ride.ArrivedAt == nil || !p.Ride.ArrivedAt.Equal(r.StartedAt.Add(160*time.Millisecond)) {
		t.Errorf("ArrivedAt = %v", p.Ride.ArrivedAt)
	}
	stored, _ := store.Get(ctx, r.ID)
	if stored.Status != StatusAwaitingPayment {
		t.Errorf("arrival not persisted: %s", stored.Status)
	}
}

func TestGet_OtherRiderCannotSeeRide(t *testing.T) {
	svc, _ := newTestService(newMemStore())
	r := book(t, svc)
	if _, err := svc.Get(context.Background(), "someone@else.com", r.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
	if _, err := svc.Get(context.Background(), r.Handle, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestPay(t *testing.T) {
	svc, c := newTestService(newMemStore())
	r := book(t, svc)
	ctx := context.Background()

	if _, err := svc.Pay(ctx, r.Handle, r.ID, PaymentUPI); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("Pay() mid-ride error = %v, want ErrInvalidState", err)
	}
	if _, err := svc.Pay(ctx, r.Handle, r.ID, PaymentMethod("bitcoin")); !errors.Is(err, ErrBadRequest) {
		t.Fatalf("Pay() bad method error = %v, want ErrBadRequest", err)
	}

	// Pay without polling first: arrival is derived inside Pay.
	c.advance(time.Second)
	paid, err := svc.Pay(ctx, r.Handle, r.ID, PaymentCard)
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if paid.Status != StatusPaid || paid.PaymentMethod != PaymentCard || paid.PaidAt == nil || paid.ArrivedAt == nil {
		t.Errorf("paid ride = %+v", paid)
	}

	if _, err := svc.Pay(ctx, r.Handle, r.ID, PaymentCash); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second Pay() error = %v, want ErrInvalidState", err)
	}
	p, err := svc.Get(ctx, r.Handle, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Ride.Status != StatusPaid {
		t.Errorf("status after pay = %s", p.Ride.Status)
	}
}

func TestGet_StalePollKeepsPayment(t *testing.T) {
	store := newMemStore()
	svc, c := newTestService(store)
	ctx := context.Background()
	r := book(t, svc)
	c.advance(time.Second)

	// The poll read the ride before the payment landed.
	before, err := store.Get(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Pay(ctx, r.Handle, r.ID, PaymentUPI); err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	store.stale = &before

	p, err := svc.Get(ctx, r.Handle, r.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if p.Ride.Status != StatusPaid {
		t.Errorf("Get() status = %s, want paid", p.Ride.Status)
	}
	stored, _ := store.Get(ctx, r.ID)
	if stored.Status != StatusPaid || stored.PaidAt == nil || stored.PaymentMethod != PaymentUPI {
		t.Errorf("stored ride = %s paidAt=%v method=%q, payment lost", stored.Status, stored.PaidAt, stored.PaymentMethod)
	}
}

func TestPay_RereadsRideAdvancedByPoll(t *testing.T) {
	store := newMemStore()
	svc, c := newTestService(store)
	ctx := context.Background()
	r := book(t, svc)
	c.advance(time.Second)

	before, _ := store.Get(ctx, r.ID)
	if p, err := svc.Get(ctx, r.Handle, r.ID); err != nil || p.Ride.Status != StatusAwaitingPayment {
		t.Fatalf("Get() = %s, %v", p.Ride.Status, err)
	}
	store.stale = &before

	paid, err := svc.Pay(ctx, r.Handle, r.ID, PaymentCard)
	if err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if paid.Status != StatusPaid {
		t.Errorf("Pay() status = %s", paid.Status)
	}
	if stored, _ := store.Get(ctx, r.ID); stored.Status != StatusPaid {
		t.Errorf("stored status = %s, want paid", stored.Status)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("RIDO_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RIDO_TEST_REDIS_ADDR not set; skipping integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()

	store := NewRedisStore(rdb)
	svc, c := newTestService(store)
	r := book(t, svc)
	ctx := context.Background()
	defer rdb.Del(ctx, "ride:"+string(r.ID))

	got, err := store.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(got.Points) != len(route) || got.Fare.RoundedTotal != 420 {
		t.Errorf("round trip lost data: %+v", got)
	}

	c.advance(time.Second)
	if _, err := svc.Pay(ctx, r.Handle, r.ID, PaymentUPI); err != nil {
		t.Fatalf("Pay() error = %v", err)
	}
	if err := store.Update(ctx, got, StatusInProgress, time.Minute); !errors.Is(err, ErrConflict) {
		t.Errorf("Update() over a paid ride error = %v, want ErrConflict", err)
	}
	if stored, _ := store.Get(ctx, r.ID); stored.Status != StatusPaid {
		t.Errorf("stored status = %s, want paid", stored.Status)
	}
	if _, err := store.Get(ctx, "missing-ride"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing ride error = %v", err)
	}
}
