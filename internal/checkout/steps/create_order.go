package steps

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/text/currency"
)

type CreateOrder struct {
	currency currency.Unit
}

func NewCreateOrder(cur currency.Unit) (CreateOrder, error) {
	var s CreateOrder

	if cur == (currency.Unit{}) {
		return s, fmt.Errorf("currency is empty")
	}

	return CreateOrder{currency: cur}, nil
}

func (s CreateOrder) Name() string {
	return "create_order"
}

func (s CreateOrder) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	order, err := repos.Orders.InsertOrder(ctx, domain.Order{
		OwnerID: dataCtx.UserID,
		Status:  domain.OrderStatusPending,
		Total:   domain.ZeroMoney(s.currency),
	})
	if err != nil {
		return fmt.Errorf("repos.Orders.InsertOrder: %w", err)
	}

	dataCtx.Order = order
	dataCtx.Total = domain.ZeroMoney(s.currency)
	dataCtx.State = StateOrderCreated

	return nil
}
