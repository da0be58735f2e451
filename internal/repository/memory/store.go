// Package memory is an in-process implementation of the repository ports.
// Transactions are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type state struct {
	users     map[uuid.UUID]domain.User
	profiles  map[uuid.UUID]domain.Profile
	products  map[uuid.UUID]domain.Product
	reviews   []domain.Review
	carts     map[uuid.UUID]domain.Cart
	cartOwner map[uuid.UUID]uuid.UUID
	orders    map[uuid.UUID]domain.Order
	orderSeq  []uuid.UUID
	payments  map[uuid.UUID]domain.Payment
	outbox    []domain.OutboxRecord
	outboxSeq int64
}

func newState() *state {
	return &state{
		users:     make(map[uuid.UUID]domain.User),
		profiles:  make(map[uuid.UUID]domain.Profile),
		products:  make(map[uuid.UUID]domain.Product),
		carts:     make(map[uuid.UUID]domain.Cart),
		cartOwner: make(map[uuid.UUID]uuid.UUID),
		orders:    make(map[uuid.UUID]domain.Order),
		payments:  make(map[uuid.UUID]domain.Payment),
	}
}

func (s *state) clone() *state {
	c := &state{
		users:     maps.Clone(s.users),
		profiles:  maps.Clone(s.profiles),
		products:  maps.Clone(s.products),
		reviews:   slices.Clone(s.reviews),
		carts:     make(map[uuid.UUID]domain.Cart, len(s.carts)),
		cartOwner: maps.Clone(s.cartOwner),
		orders:    make(map[uuid.UUID]domain.Order, len(s.orders)),
		orderSeq:  slices.Clone(s.orderSeq),
		payments:  maps.Clone(s.payments),
		outbox:    slices.Clone(s.outbox),
		outboxSeq: s.outboxSeq,
	}

	for id, cart := range s.carts {
		cart.Items = slices.Clone(cart.Items)
		c.carts[id] = cart
	}
	for id, order := range s.orders {
		order.Items = slices.Clone(order.Items)
		c.orders[id] = order
	}

	return c
}

type Store struct {
	mu    sync.Mutex
	state *state
	hook  func(op string) error
	now   func() time.Time
}

func NewStore() *Store {
	return &Store{
		state: newState(),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// SetWriteHook installs fn to run before every write; a non-nil result
// fails that write. Writes are named after the port method, e.g. "InsertOrderItem".
func (s *Store) SetWriteHook(fn func(op string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hook = fn
}

// Repositories returns repositories that lock the store per call.
func (s *Store) Repositories() port.Repositories {
	return s.repositories(false)
}

func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, repos port.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	snapshot := s.state.clone()

	if err := fn(ctx, s.repositories(true)); err != nil {
		s.state = snapshot
		return err
	}

	return nil
}

func (s *Store) repositories(inTx bool) port.Repositories {
	v := &view{store: s, inTx: inTx}
	return port.Repositories{
		Products: v,
		Reviews:  v,
		Carts:    v,
		Orders:   v,
		Users:    v,
		Outbox:   v,
	}
}

// view implements every repository port over the shared state.
type view struct {
	store *Store
	inTx  bool
}

func (v *view) read(fn func(st *state) error) error {
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}
	return fn(v.store.state)
}

func (v *view) write(op string, fn func(st *state) error) error {
	if !v.inTx {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
	}

	if v.store.hook != nil {
		if err := v.store.hook(op); err != nil {
			return err
		}
	}

	return fn(v.store.state)
}

func (v *view) now() time.Time {
	return v.store.now()
}

var _ port.Transactor = (*Store)(nil)
