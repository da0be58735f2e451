package steps

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type Step interface {
	Name() string
	Run(ctx context.Context, repos port.Repositories, dataCtx *DataContext) error
}

type State string

const (
	StateStart            State = "start"
	StateStockValidated   State = "stock_validated"
	StateOrderCreated     State = "order_created"
	StateStockDecremented State = "stock_decremented"
	StateCartCleared      State = "cart_cleared"
	StateDone             State = "done"
	StateAborted          State = "aborted"
)

// DataContext is shared by the steps of one checkout attempt.
type DataContext struct {
	UserID  uuid.UUID
	Payment domain.PaymentDetails

	// Cart is the snapshot read by load_cart; later steps never re-read the cart.
	Cart domain.Cart
	// Products holds the rows locked by validate_stock.
	Products map[uuid.UUID]domain.Product

	Order domain.Order
	Total domain.Money

	State State
}
