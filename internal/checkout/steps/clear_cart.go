package steps

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog/log"
)

// ClearCart deletes the snapshot lines only. Lines added after load_cart stay.
type ClearCart struct{}

func NewClearCart() ClearCart {
	return ClearCart{}
}

func (s ClearCart) Name() string {
	return "clear_cart"
}

func (s ClearCart) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	itemIDs := dataCtx.Cart.ItemIDs()

	deleted, err := repos.Carts.DeleteItems(ctx, dataCtx.Cart.ID, itemIDs)
	if err != nil {
		return fmt.Errorf("repos.Carts.DeleteItems: %w", err)
	}

	if deleted != len(itemIDs) {
		log.Warn().
			Str("method", "ClearCart.Run").
			Str("cart_id", dataCtx.Cart.ID.String()).
			Int("expected", len(itemIDs)).
			Int("deleted", deleted).
			Msg("cart lines removed concurrently")
	}

	dataCtx.State = StateCartCleared

	return nil
}
