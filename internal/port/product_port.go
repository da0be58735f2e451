package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)

	// GetProductsForUpdate locks the rows until the surrounding transaction ends.
	GetProductsForUpdate(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error)

	ListAvailableProducts(ctx context.Context) ([]domain.Product, error)

	UpdatePrice(ctx context.Context, ownerID, productID uuid.UUID, price domain.Money) error
	UpdateStock(ctx context.Context, ownerID, productID uuid.UUID, stock int) error

	// DecrementStock reports false when the product holds fewer than quantity units.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)

	TopProducts(ctx context.Context, ranking domain.ProductRanking, limit int) ([]domain.ScoredProduct, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review domain.Review) (domain.Review, error)
	ListProductReviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error)
}
