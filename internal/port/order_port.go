package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	// InsertOrder stores the order header only and returns it with ID and timestamps set.
	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)
	InsertOrderItem(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) error
	UpdateOrderTotal(ctx context.Context, orderID uuid.UUID, total domain.Money) error

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	InsertPayment(ctx context.Context, payment domain.Payment) error
	GetPayment(ctx context.Context, orderID uuid.UUID) (domain.Payment, error)
}
