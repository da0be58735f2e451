package port

import "context"

// Repositories groups the stores a unit of work may touch.
type Repositories struct {
	Products ProductRepository
	Reviews  ReviewRepository
	Carts    CartRepository
	Orders   OrderRepository
	Users    UserRepository
	Outbox   OutboxRepository
}

// Transactor runs fn atomically: every write made through repos is committed
// when fn returns nil and discarded otherwise.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
