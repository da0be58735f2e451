package steps

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// MaterializeLines turns every snapshot line into an order item priced at the
// product's current price and takes the units out of stock.
type MaterializeLines struct{}

func NewMaterializeLines() MaterializeLines {
	return MaterializeLines{}
}

func (s MaterializeLines) Name() string {
	return "materialize_lines"
}

func (s MaterializeLines) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	if dataCtx.Order.ID == uuid.Nil {
		return fmt.Errorf("order is not created")
	}

	total := dataCtx.Total

	for idx, line := range dataCtx.Cart.Items {
		product, ok := dataCtx.Products[line.ProductID]
		if !ok {
			return fmt.Errorf("product[%s] is not locked", line.ProductID)
		}

		item := domain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		}

		if err := repos.Orders.InsertOrderItem(ctx, dataCtx.Order.ID, item); err != nil {
			return fmt.Errorf("repos.Orders.InsertOrderItem[%d]: %w", idx, err)
		}

		// second guard next to the row lock: zero rows means the stock moved
		decremented, err := repos.Products.DecrementStock(ctx, product.ID, line.Quantity)
		if err != nil {
			return fmt.Errorf("repos.Products.DecrementStock[%d]: %w", idx, err)
		}
		if !decremented {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   line.Quantity,
				Available:   product.Stock,
			}
		}

		if total, err = total.Add(item.Subtotal()); err != nil {
			return fmt.Errorf("total.Add[%s]: %w", product.ID, err)
		}

		dataCtx.Order.Items = append(dataCtx.Order.Items, item)
	}

	dataCtx.Total = total
	dataCtx.State = StateStockDecremented

	return nil
}
