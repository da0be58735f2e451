package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (v *view) InsertOrder(_ context.Context, order domain.Order) (domain.Order, error) {
	if order.OwnerID == uuid.Nil {
		return domain.Order{}, errors.New("ownerID is empty")
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	err := v.write("InsertOrder", func(st *state) error {
		if _, ok := st.users[order.OwnerID]; !ok {
			return fmt.Errorf("owner: %w", domain.ErrNotFound)
		}

		order.ID = uuid.New()
		order.Total = order.Total.Round()
		order.Items = nil
		order.CreatedAt = v.now()
		order.UpdatedAt = order.CreatedAt

		st.orders[order.ID] = order
		st.orderSeq = append(st.orderSeq, order.ID)
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("InsertOrder: %w", err)
	}

	return order, nil
}

func (v *view) InsertOrderItem(_ context.Context, orderID uuid.UUID, item domain.OrderItem) error {
	if item.Quantity <= 0 {
		return errors.New("quantity is not positive")
	}

	err := v.write("InsertOrderItem", func(st *state) error {
		order, ok := st.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		if slices.ContainsFunc(order.Items, func(existing domain.OrderItem) bool {
			return existing.ProductID == item.ProductID
		}) {
			return fmt.Errorf("order item[%s] already exists", item.ProductID)
		}

		item.Price = item.Price.Round()
		item.CreatedAt = v.now()
		order.Items = append(slices.Clone(order.Items), item)
		st.orders[orderID] = order
		return nil
	})
	if err != nil {
		return fmt.Errorf("InsertOrderItem: %w", err)
	}

	return nil
}

func (v *view) UpdateOrderTotal(_ context.Context, orderID uuid.UUID, total domain.Money) error {
	err := v.write("UpdateOrderTotal", func(st *state) error {
		order, ok := st.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}

		order.Total = total.Round()
		order.UpdatedAt = v.now()
		st.orders[orderID] = order
		return nil
	})
	if err != nil {
		return fmt.Errorf("UpdateOrderTotal: %w", err)
	}

	return nil
}

func (v *view) GetOrder(_ context.Context, orderID uuid.UUID) (domain.Order, error) {
	var order domain.Order

	err := v.read(func(st *state) error {
		o, ok := st.orders[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		o.Items = slices.Clone(o.Items)
		order = o
		return nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("GetOrder: %w", err)
	}

	return order, nil
}

func (v *view) SearchOrders(_ context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	var orders []domain.Order

	_ = v.read(func(st *state) error {
		// newest first, like the SQL ordering
		for _, id := range slices.Backward(st.orderSeq) {
			o := st.orders[id]
			if matches(filter, o) && len(o.Items) > 0 {
				o.Items = slices.Clone(o.Items)
				orders = append(orders, o)
			}
		}
		return nil
	})

	return orders, nil
}

func matches(f domain.OrderFilter, o domain.Order) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, o.ID) {
		return false
	}
	if len(f.OwnerIDs) > 0 && !slices.Contains(f.OwnerIDs, o.OwnerID) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, o.Status) {
		return false
	}
	if f.CreatedAt != nil {
		if f.CreatedAt.After != nil && o.CreatedAt.Before(*f.CreatedAt.After) {
			return false
		}
		if f.CreatedAt.Before != nil && o.CreatedAt.After(*f.CreatedAt.Before) {
			return false
		}
	}
	return true
}

func (v *view) InsertPayment(_ context.Context, payment domain.Payment) error {
	if !payment.Method.Valid() {
		return fmt.Errorf("payment method[%s] is not valid", payment.Method)
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentStatusPending
	}

	err := v.write("InsertPayment", func(st *state) error {
		if _, ok := st.orders[payment.OrderID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.payments[payment.OrderID]; ok {
			return fmt.Errorf("payment for order[%s] already exists", payment.OrderID)
		}

		payment.Amount = payment.Amount.Round()
		payment.CreatedAt = v.now()
		st.payments[payment.OrderID] = payment
		return nil
	})
	if err != nil {
		return fmt.Errorf("InsertPayment: %w", err)
	}

	return nil
}

func (v *view) GetPayment(_ context.Context, orderID uuid.UUID) (domain.Payment, error) {
	var payment domain.Payment

	err := v.read(func(st *state) error {
		p, ok := st.payments[orderID]
		if !ok {
			return domain.ErrNotFound
		}
		payment = p
		return nil
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("GetPayment: %w", err)
	}

	return payment, nil
}
