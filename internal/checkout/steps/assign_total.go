package steps

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
)

type AssignTotal struct{}

func NewAssignTotal() AssignTotal {
	return AssignTotal{}
}

func (s AssignTotal) Name() string {
	return "assign_total"
}

func (s AssignTotal) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	if err := repos.Orders.UpdateOrderTotal(ctx, dataCtx.Order.ID, dataCtx.Total); err != nil {
		return fmt.Errorf("repos.Orders.UpdateOrderTotal: %w", err)
	}

	dataCtx.Order.Total = dataCtx.Total.Round()

	return nil
}
