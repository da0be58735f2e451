package steps

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

// EnqueueEvent writes the order.created event in the checkout transaction;
// the outbox relay publishes it after commit.
type EnqueueEvent struct {
	topic string
}

func NewEnqueueEvent(topic string) (EnqueueEvent, error) {
	var s EnqueueEvent

	if topic == "" {
		return s, fmt.Errorf("topic is empty")
	}

	return EnqueueEvent{topic: topic}, nil
}

func (s EnqueueEvent) Name() string {
	return "enqueue_event"
}

func (s EnqueueEvent) Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error {
	order := dataCtx.Order

	event := domain.OrderCreatedEvent{
		Type:     domain.EventOrderCreated,
		EventID:  uuid.New(),
		OrderID:  order.ID,
		OwnerID:  order.OwnerID,
		Total:    order.Total.Amount.StringFixed(domain.MoneyScale),
		Currency: order.Total.Currency.String(),
		Payment:  dataCtx.Payment.Method,
		Items: lo.Map(order.Items, func(item domain.OrderItem, _ int) domain.OrderCreatedLineItem {
			return domain.OrderCreatedLineItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Price.Amount.StringFixed(domain.MoneyScale),
			}
		}),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	err = repos.Outbox.InsertRecord(ctx, domain.OutboxRecord{
		EventID: event.EventID,
		Topic:   s.topic,
		Key:     order.ID.String(),
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("repos.Outbox.InsertRecord: %w", err)
	}

	return nil
}
