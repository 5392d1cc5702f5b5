// README: Session service issues and resolves mock login tokens.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBadRequest = errors.New("phone or email required")
	ErrNotFound   = errors.New("session not found")
)

type Store interface {
	Save(ctx context.Context, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
}

type Service struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewService(store Store, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl, now: time.Now}
}

func (s *Service) Login(ctx context.Context, handle string) (Session, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return Session{}, ErrBadRequest
	}
	sess := Session{
		Token:     uuid.NewString(),
		Handle:    handle,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess, s.ttl); err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *Service) Lookup(ctx context.Context, token string) (Session, error) {
	if strings.TrimSpace(token) == "" {
		return Session{}, ErrNotFound
	}
	return s.store.Get(ctx, token)
}
