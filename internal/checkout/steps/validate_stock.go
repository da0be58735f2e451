package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

// ValidateStock locks every product of the snapshot and checks the requested
// quantities. The locks are held until commit, so the stock read here is the
// stock materialize_lines decrements.
type ValidateStock struct{}

func NewValidateStock() ValidateStock {
	return ValidateStock{}
}

func (s ValidateStock) Name() string {
	return "validate_stock"
}

func (s ValidateStock) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	products, err := repos.Products.GetProductsForUpdate(ctx, dataCtx.Cart.ProductIDs())
	if err != nil {
		return fmt.Errorf("repos.Products.GetProductsForUpdate: %w", err)
	}

	byID := lo.KeyBy(products, func(p domain.Product) uuid.UUID {
		return p.ID
	})

	for _, line := range dataCtx.Cart.Items {
		product, ok := byID[line.ProductID]
		if !ok {
			return fmt.Errorf("product[%s]: %w", line.ProductID, domain.ErrNotFound)
		}

		if line.Quantity > product.Stock {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}
	}

	dataCtx.Products = byID
	dataCtx.State = StateStockValidated

	return nil
}
