package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/port"
)

const pendingValue = "pending"

type idempotencyStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl time.Duration) (port.IdempotencyStore, error) {
	if rdb == nil {
		return nil, fmt.Errorf("rdb is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl is not positive")
	}

	return &idempotencyStore{rdb: rdb, ttl: ttl}, nil
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotent-key:%s", key)
}

func (s *idempotencyStore) Claim(ctx context.Context, key string) (bool, error) {
	claimed, err := s.rdb.SetNX(ctx, idempotencyKey(key), pendingValue, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("rdb.SetNX: %w", err)
	}

	return claimed, nil
}

func (s *idempotencyStore) Bind(ctx context.Context, key string, orderID uuid.UUID) error {
	if err := s.rdb.Set(ctx, idempotencyKey(key), orderID.String(), s.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

func (s *idempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, idempotencyKey(key)).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}

	return nil
}

func (s *idempotencyStore) Lookup(ctx context.Context, key string) (uuid.UUID, bool, error) {
	value, err := s.rdb.Get(ctx, idempotencyKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("rdb.Get: %w", err)
	}

	if value == pendingValue {
		return uuid.Nil, false, nil
	}

	orderID, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("uuid.Parse: %w", err)
	}

	return orderID, true, nil
}
