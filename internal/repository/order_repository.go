package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

type orderRepository struct {
	q    *db.Queries
	dbtx db.DBTX
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:    db.New(pool),
		dbtx: pool,
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:    db.New(tx),
		dbtx: tx,
	}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	if order.OwnerID == uuid.Nil {
		return domain.Order{}, errors.New("ownerID is empty")
	}
	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	total := order.Total.Round()

	row, err := r.q.InsertOrder(ctx, db.InsertOrderParams{
		OwnerID:       order.OwnerID,
		Status:        string(order.Status),
		TotalAmount:   total.Amount,
		TotalCurrency: total.Currency.String(),
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.InsertOrder: %w", err)
	}

	order.ID = row.ID
	order.Total = total
	order.CreatedAt = row.CreatedAt
	order.UpdatedAt = row.UpdatedAt

	return order, nil
}

func (r *orderRepository) InsertOrderItem(ctx context.Context, orderID uuid.UUID, item domain.OrderItem) error {
	if item.Quantity <= 0 {
		return errors.New("quantity is not positive")
	}

	arg := db.InsertOrderItemParams{
		OrderID:       orderID,
		ProductID:     item.ProductID,
		ProductName:   item.ProductName,
		Quantity:      int32(item.Quantity),
		PriceAmount:   item.Price.Round().Amount,
		PriceCurrency: item.Price.Currency.String(),
	}
	if err := r.q.InsertOrderItem(ctx, arg); err != nil {
		return fmt.Errorf("q.InsertOrderItem: %w", err)
	}

	return nil
}

func (r *orderRepository) UpdateOrderTotal(ctx context.Context, orderID uuid.UUID, total domain.Money) error {
	total = total.Round()

	rowsAffected, err := r.q.UpdateOrderTotal(ctx, db.UpdateOrderTotalParams{
		TotalAmount:   total.Amount,
		TotalCurrency: total.Currency.String(),
		ID:            orderID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderTotal: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.UpdateOrderTotal: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	order, err := withTx(ctx, r.dbtx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.GetOrder: %w", notFoundIfNoRows(err))
		}

		dbOrderItems, err := q.GetOrderItems(ctx, orderID)
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.GetOrderItems: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderItems)
		if err != nil {
			return domain.Order{}, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("withTx: %w", err)
	}

	return order, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	statuses := lo.Map(filter.Statuses, func(status domain.OrderStatus, _ int) string {
		return string(status)
	})

	var createdAfter, createdBefore *time.Time

	if filter.CreatedAt != nil {
		createdAfter = filter.CreatedAt.After
		createdBefore = filter.CreatedAt.Before
	}

	return db.SearchOrdersParams{
		Ids:           nilSliceIfEmpty(filter.IDs),
		OwnerIds:      nilSliceIfEmpty(filter.OwnerIDs),
		Statuses:      nilSliceIfEmpty(statuses),
		CreatedAfter:  createdAfter,
		CreatedBefore: createdBefore,
	}
}

// SearchOrders returns matching orders newest first.
func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	dbOrders, err := r.q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
	if err != nil {
		return nil, fmt.Errorf("q.SearchOrders: %w", err)
	}

	// rows arrive grouped by order, so a position index keeps the SQL ordering
	var orders []domain.Order
	positions := make(map[uuid.UUID]int)

	for _, row := range dbOrders {
		pos, exists := positions[row.ID]
		if !exists {
			order, err := mapSearchOrdersRowToDomainOrder(row)
			if err != nil {
				return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrder: %w", err)
			}
			pos = len(orders)
			positions[row.ID] = pos
			orders = append(orders, order)
		}

		item, err := mapSearchOrdersRowToDomainOrderItem(row)
		if err != nil {
			return nil, fmt.Errorf("mapSearchOrdersRowToDomainOrderItem: %w", err)
		}

		orders[pos].Items = append(orders[pos].Items, item)
	}

	return orders, nil
}

func (r *orderRepository) InsertPayment(ctx context.Context, payment domain.Payment) error {
	if !payment.Method.Valid() {
		return fmt.Errorf("payment method[%s] is not valid", payment.Method)
	}
	if payment.Status == "" {
		payment.Status = domain.PaymentStatusPending
	}

	amount := payment.Amount.Round()

	err := r.q.InsertPayment(ctx, db.InsertPaymentParams{
		OrderID:        payment.OrderID,
		Method:         string(payment.Method),
		Amount:         amount.Amount,
		AmountCurrency: amount.Currency.String(),
		Status:         string(payment.Status),
	})
	if err != nil {
		return fmt.Errorf("q.InsertPayment: %w", err)
	}

	return nil
}

func (r *orderRepository) GetPayment(ctx context.Context, orderID uuid.UUID) (domain.Payment, error) {
	row, err := r.q.GetPayment(ctx, orderID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("q.GetPayment: %w", notFoundIfNoRows(err))
	}

	amount, err := toMoney(row.Amount, row.AmountCurrency)
	if err != nil {
		return domain.Payment{}, err
	}

	return domain.Payment{
		OrderID:   row.OrderID,
		Method:    domain.PaymentMethod(row.Method),
		Amount:    amount,
		Status:    domain.PaymentStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}, nil
}

func mapOrderItemRowToDomain(row db.OrderItem) (domain.OrderItem, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, err
	}

	return domain.OrderItem{
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Quantity:    int(row.Quantity),
		Price:       price,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func mapOrderItemRowsToDomain(rows []db.OrderItem) ([]domain.OrderItem, error) {
	var items []domain.OrderItem

	for _, row := range rows {
		item, err := mapOrderItemRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapOrderItemRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderItems []db.OrderItem) (domain.Order, error) {
	items, err := mapOrderItemRowsToDomain(dbOrderItems)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderItemRowsToDomain: %w", err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	total, err := toMoney(dbOrder.TotalAmount, dbOrder.TotalCurrency)
	if err != nil {
		return domain.Order{}, err
	}

	return domain.Order{
		ID:        dbOrder.ID,
		OwnerID:   dbOrder.OwnerID,
		Status:    status,
		Total:     total,
		Items:     items,
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}

func mapSearchOrdersRowToDomainOrder(row db.SearchOrdersRow) (domain.Order, error) {
	status, err := domain.ToOrderStatus(row.Status)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.Status, err)
	}

	total, err := toMoney(row.TotalAmount, row.TotalCurrency)
	if err != nil {
		return domain.Order{}, err
	}

	return domain.Order{
		ID:        row.ID,
		OwnerID:   row.OwnerID,
		Status:    status,
		Total:     total,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

func mapSearchOrdersRowToDomainOrderItem(row db.SearchOrdersRow) (domain.OrderItem, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.OrderItem{}, err
	}

	return domain.OrderItem{
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		Quantity:    int(row.Quantity),
		Price:       price,
	}, nil
}
