// README: Session store backed by Redis keys with TTL.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:%s"

type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{redis: rdb}
}

func (s *RedisStore) Save(ctx context.Context, sess Session, ttl time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, fmt.Sprintf(keyPrefix, sess.Token), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	raw, err := s.redis.Get(ctx, fmt.Sprintf(keyPrefix, token)).Bytes()
	if err == redis.Nil {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}
