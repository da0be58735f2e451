package port

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductCache interface {
	Get(ctx context.Context, productID uuid.UUID) (domain.Product, bool, error)
	Set(ctx context.Context, product domain.Product) error
	Delete(ctx context.Context, productIDs ...uuid.UUID) error
}

type SessionStore interface {
	Save(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	// Get returns domain.ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, tokenID string) (uuid.UUID, error)
	Delete(ctx context.Context, tokenID string) error
}

// IdempotencyStore remembers which order a client-supplied key produced.
type IdempotencyStore interface {
	// Claim reserves key; false means another request already holds it.
	Claim(ctx context.Context, key string) (bool, error)
	Bind(ctx context.Context, key string, orderID uuid.UUID) error
	Release(ctx context.Context, key string) error
	// Lookup reports the bound order, or ok=false while the key is still pending.
	Lookup(ctx context.Context, key string) (orderID uuid.UUID, ok bool, err error)
}
