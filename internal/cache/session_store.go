package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type sessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) (port.SessionStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("rdb is nil")
	}

	return &sessionStore{rdb: rdb}, nil
}

func sessionKey(tokenID string) string {
	return fmt.Sprintf("session:%s", tokenID)
}

func (s *sessionStore) Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(tokenID), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

func (s *sessionStore) Get(ctx context.Context, tokenID string) (uuid.UUID, error) {
	value, err := s.rdb.Get(ctx, sessionKey(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, domain.ErrNotFound
		}
		return uuid.Nil, fmt.Errorf("rdb.Get: %w", err)
	}

	userID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid.Parse: %w", err)
	}

	return userID, nil
}

func (s *sessionStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.rdb.Del(ctx, sessionKey(tokenID)).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}

	return nil
}
