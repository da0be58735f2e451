package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CartRepository interface {
	// GetOrCreateCart is idempotent; items carry live product data.
	GetOrCreateCart(ctx context.Context, ownerID uuid.UUID) (domain.Cart, error)

	GetItemForUpdate(ctx context.Context, cartID, productID uuid.UUID) (domain.CartItem, error)
	UpsertItem(ctx context.Context, cartID, productID uuid.UUID, quantity int) (uuid.UUID, error)

	DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) (bool, error)
	DeleteItems(ctx context.Context, cartID uuid.UUID, itemIDs []uuid.UUID) (int, error)
}
