// README: Quote audit log backed by PostgreSQL.
package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const createQuotesTable = `
CREATE TABLE IF NOT EXISTS fare_quotes (
	id                 TEXT PRIMARY KEY,
	pickup             TEXT NOT NULL,
	drop_location      TEXT NOT NULL,
	zone_name          TEXT NOT NULL,
	zone_multiplier    DOUBLE PRECISION NOT NULL,
	traffic_multiplier DOUBLE PRECISION NOT NULL,
	distance_km        DOUBLE PRECISION NOT NULL,
	duration_min       DOUBLE PRECISION NOT NULL,
	total_fare         DOUBLE PRECISION NOT NULL,
	rounded_total      BIGINT NOT NULL,
	currency           TEXT NOT NULL,
	quoted_at          TIMESTAMPTZ NOT NULL
)`

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createQuotesTable); err != nil {
		return fmt.Errorf("create fare_quotes: %w", err)
	}
	return nil
}

func (s *Store) AppendQuote(ctx context.Context, rec QuoteRecord) error {
	q := rec.Quote
	_, err := s.db.Exec(ctx, `
		INSERT INTO fare_quotes (
			id, pickup, drop_location, zone_name, zone_multiplier, traffic_multiplier,
			distance_km, duration_min, total_fare, rounded_total, currency, quoted_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(rec.ID), rec.Pickup, rec.Drop, q.ZoneName, q.ZoneMultiplier, q.TrafficMultiplier,
		q.DistanceKm, q.DurationMin, q.TotalFare, q.RoundedTotal, q.Currency, q.QuotedAt,
	)
	if err != nil {
		return fmt.Errorf("insert fare quote: %w", err)
	}
	return nil
}

// RoundedTotal returns the recorded rounded total for a quote id.
func (s *Store) RoundedTotal(ctx context.Context, id string) (int64, error) {
	var total int64
	err := s.db.QueryRow(ctx, `SELECT rounded_total FROM fare_quotes WHERE id = $1`, id).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("select fare quote: %w", err)
	}
	return total, nil
}
