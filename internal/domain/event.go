package domain

import (
	"time"

	"github.com/google/uuid"
)

const EventOrderCreated = "order.created"

// OutboxRecord is an event persisted alongside the state change that produced it.
type OutboxRecord struct {
	ID        int64
	EventID   uuid.UUID
	Topic     string
	Key       string
	Payload   []byte
	CreatedAt time.Time
	SentAt    *time.Time
}

type OrderCreatedEvent struct {
	Type     string                 `json:"type"`
	EventID  uuid.UUID              `json:"event_id"`
	OrderID  uuid.UUID              `json:"order_id"`
	OwnerID  uuid.UUID              `json:"owner_id"`
	Total    string                 `json:"total"`
	Currency string                 `json:"currency"`
	Payment  PaymentMethod          `json:"payment_method"`
	Items    []OrderCreatedLineItem `json:"items"`
}

type OrderCreatedLineItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
}
