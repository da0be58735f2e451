package steps

import (
	"context"
	"fmt"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

// RecordPayment stores a pending payment for the order total. Card data from
// the form is not persisted.
type RecordPayment struct{}

func NewRecordPayment() RecordPayment {
	return RecordPayment{}
}

func (s RecordPayment) Name() string {
	return "record_payment"
}

func (s RecordPayment) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	err := repos.Orders.InsertPayment(ctx, domain.Payment{
		OrderID: dataCtx.Order.ID,
		Method:  dataCtx.Payment.Method,
		Amount:  dataCtx.Order.Total,
		Status:  domain.PaymentStatusPending,
	})
	if err != nil {
		return fmt.Errorf("repos.Orders.InsertPayment: %w", err)
	}

	return nil
}
