// README: Pricing service computes fare quotes and records them to the audit log.
package pricing

import (
	"context"
)

type Service struct {
	engine Engine
	store  *Store
}

// NewService returns a pricing service. store may be nil, in which case
// quotes are not recorded.
func NewService(engine Engine, store *Store) *Service {
	return &Service{engine: engine, store: store}
}

func (s *Service) Engine() Engine { return s.engine }

func (s *Service) Estimate(ctx context.Context, req PricingRequest) (Quote, error) {
	return s.engine.Calculate(req.DistanceKm, req.DurationMin, req.Pickup, req.RequestTime)
}

func (s *Service) Record(ctx context.Context, rec QuoteRecord) error {
	if s.store == nil {
		return nil
	}
	return s.store.AppendQuote(ctx, rec)
}
