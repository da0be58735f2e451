package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type ProductCache struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product
}

func NewProductCache() *ProductCache {
	return &ProductCache{products: make(map[uuid.UUID]domain.Product)}
}

func (c *ProductCache) Get(_ context.Context, productID uuid.UUID) (domain.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[productID]
	return p, ok, nil
}

func (c *ProductCache) Set(_ context.Context, product domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.products[product.ID] = product
	return nil
}

func (c *ProductCache) Delete(_ context.Context, productIDs ...uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range productIDs {
		delete(c.products, id)
	}
	return nil
}

type session struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session)}
}

func (s *SessionStore) Save(_ context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[tokenID] = session{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, tokenID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[tokenID]
	if !ok || time.Now().After(sess.expiresAt) {
		return uuid.Nil, domain.ErrNotFound
	}
	return sess.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, tokenID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, tokenID)
	return nil
}

type IdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]uuid.UUID
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{keys: make(map[string]uuid.UUID)}
}

func (s *IdempotencyStore) Claim(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = uuid.Nil
	return true, nil
}

func (s *IdempotencyStore) Bind(_ context.Context, key string, orderID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key] = orderID
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.keys, key)
	return nil
}

func (s *IdempotencyStore) Lookup(_ context.Context, key string) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	orderID, ok := s.keys[key]
	if !ok || orderID == uuid.Nil {
		return uuid.Nil, false, nil
	}
	return orderID, true, nil
}

var (
	_ port.ProductCache     = (*ProductCache)(nil)
	_ port.SessionStore     = (*SessionStore)(nil)
	_ port.IdempotencyStore = (*IdempotencyStore)(nil)
)
