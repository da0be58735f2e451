package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"golang.org/x/text/currency"
)

type Cart struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Items   []CartItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a cart line; product fields reflect the live product row.
type CartItem struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	Price       Money
	Stock       int
	Quantity    int

	CreatedAt time.Time
}

func (i CartItem) Subtotal() Money {
	return i.Price.Mul(i.Quantity)
}

func (c Cart) ItemIDs() []uuid.UUID {
	return lo.Map(c.Items, func(item CartItem, _ int) uuid.UUID {
		return item.ID
	})
}

func (c Cart) ProductIDs() []uuid.UUID {
	return lo.Uniq(lo.Map(c.Items, func(item CartItem, _ int) uuid.UUID {
		return item.ProductID
	}))
}

func (c Cart) Subtotal(cur currency.Unit) (Money, error) {
	return Sum(cur, lo.Map(c.Items, func(item CartItem, _ int) Money {
		return item.Subtotal()
	})...)
}

type CartSummary struct {
	Items    []CartItem
	Subtotal Money
	Shipping Money
	Total    Money
}

// Summarize totals a cart; shipping applies only to a non-zero subtotal.
func Summarize(c Cart, shipping Money) (CartSummary, error) {
	subtotal, err := c.Subtotal(shipping.Currency)
	if err != nil {
		return CartSummary{}, err
	}

	if !subtotal.IsPositive() {
		shipping = ZeroMoney(shipping.Currency)
	}

	total, err := subtotal.Add(shipping)
	if err != nil {
		return CartSummary{}, err
	}

	return CartSummary{
		Items:    c.Items,
		Subtotal: subtotal,
		Shipping: shipping,
		Total:    total,
	}, nil
}
