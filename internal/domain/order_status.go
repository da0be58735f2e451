package domain

import "errors"

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPaid:      {},
	OrderStatusShipped:   {},
	OrderStatusCancelled: {},
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}

	return "", errors.New("invalid order status")
}
