// README: Ride store backed by Redis keys with TTL; rides are not kept as history.
package ride

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"rido/internal/types"
)

const keyPrefix = "ride:%s"

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{redis: rdb}
}

func (s *RedisStore) Save(ctx context.Context, r Ride, ttl time.Duration) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf(keyPrefix, string(r.ID)), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id types.ID) (Ride, error) {
	raw, err := s.redis.Get(ctx, fmt.Sprintf(keyPrefix, string(id))).Bytes()
	if err == redis.Nil {
		return Ride{}, ErrNotFound
	}
	if err != nil {
		return Ride{}, err
	}
	var r Ride
	if err := json.Unmarshal(raw, &r); err != nil {
		return Ride{}, fmt.Errorf("decode ride: %w", err)
	}
	return r, nil
}

// Update writes r under WATCH so a ride whose status changed since it was
// read is never overwritten.
func (s *RedisStore) Update(ctx context.Context, r Ride, from Status, ttl time.Duration) error {
	key := fmt.Sprintf(keyPrefix, string(r.ID))
	payload, err := json.Marshal(r)
	if err != nil {
		return err
	}
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var cur Ride
		if err := json.Unmarshal(raw, &cur); err != nil {
			return fmt.Errorf("decode ride: %w", err)
		}
		if cur.Status != from {
			return ErrConflict
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, ttl)
			return nil
		})
		return err
	}
	err = s.redis.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}
