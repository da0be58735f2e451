package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Order struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Status  OrderStatus
	Total   Money
	Items   []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem captures the unit price at the moment the order was placed.
type OrderItem struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    int
	Price       Money

	CreatedAt time.Time
}

func (i OrderItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

// ItemsTotal recomputes the total from the captured lines.
func (o Order) ItemsTotal() (Money, error) {
	return Sum(o.Total.Currency, lo.Map(o.Items, func(item OrderItem, _ int) Money {
		return item.Subtotal()
	})...)
}
