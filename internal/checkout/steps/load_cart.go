package steps

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type LoadCart struct{}

func NewLoadCart() LoadCart {
	return LoadCart{}
}

func (s LoadCart) Name() string {
	return "load_cart"
}

func (s LoadCart) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	cart, err := repos.Carts.GetOrCreateCart(ctx, dataCtx.UserID)
	if err != nil {
		return fmt.Errorf("repos.Carts.GetOrCreateCart: %w", err)
	}

	if len(cart.Items) == 0 {
		return domain.ErrEmptyCart
	}

	dataCtx.Cart = cart
	dataCtx.State = StateStart

	return nil
}
