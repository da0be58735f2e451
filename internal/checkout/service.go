package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/checkout/steps"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	OutcomePlaced            = "placed"
	OutcomeInvalid           = "invalid"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeFailed            = "failed"
)

// Observer is notified once per checkout attempt.
type Observer interface {
	ObserveCheckout(outcome string)
}

type Config struct {
	Currency currency.Unit
	Shipping decimal.Decimal
	Topic    string
}

type Service struct {
	tx       port.Transactor
	carts    port.CartRepository
	cache    port.ProductCache
	observer Observer

	pipeline Pipeline
	shipping domain.Money
}

// NewService builds the checkout workflow. cache and observer are optional.
func NewService(tx port.Transactor, carts port.CartRepository, cache port.ProductCache, observer Observer, cfg Config) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx is nil")
	}
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if cfg.Shipping.IsNegative() {
		return nil, fmt.Errorf("shipping is negative")
	}

	pipeline, err := NewPipeline(cfg.Currency, cfg.Topic)
	if err != nil {
		return nil, fmt.Errorf("NewPipeline: %w", err)
	}

	return &Service{
		tx:       tx,
		carts:    carts,
		cache:    cache,
		observer: observer,
		pipeline: pipeline,
		shipping: domain.Money{Amount: cfg.Shipping, Currency: cfg.Currency},
	}, nil
}

// Preview summarizes the cart shown on the checkout page.
func (s *Service) Preview(ctx context.Context, userID uuid.UUID) (domain.CartSummary, error) {
	var summary domain.CartSummary

	if userID == uuid.Nil {
		return summary, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return summary, fmt.Errorf("s.carts.GetOrCreateCart: %w", err)
	}

	if len(cart.Items) == 0 {
		return summary, domain.ErrEmptyCart
	}

	summary, err = domain.Summarize(cart, s.shipping)
	if err != nil {
		return summary, fmt.Errorf("domain.Summarize: %w", err)
	}

	return summary, nil
}

// Checkout turns the user's cart into a pending order in a single transaction.
// On any error nothing is persisted.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, details domain.PaymentDetails) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	if err := details.Validate(); err != nil {
		s.observe(OutcomeInvalid)
		return uuid.Nil, fmt.Errorf("details.Validate: %w", err)
	}

	dataCtx := steps.DataContext{
		UserID:  userID,
		Payment: details,
		State:   steps.StateStart,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		return s.pipeline.Run(ctx, repos, &dataCtx)
	})
	if err != nil {
		failedAt := dataCtx.State
		dataCtx.State = steps.StateAborted

		outcome := outcomeOf(err)
		s.observe(outcome)

		if outcome == OutcomeFailed {
			log.Error().Err(err).
				Str("method", "Service.Checkout").
				Str("user_id", userID.String()).
				Str("state", string(failedAt)).
				Msg("checkout aborted")
		}

		return uuid.Nil, fmt.Errorf("s.tx.InTx: %w", err)
	}

	dataCtx.State = steps.StateDone
	s.observe(OutcomePlaced)

	if s.cache != nil {
		if err := s.cache.Delete(ctx, dataCtx.Cart.ProductIDs()...); err != nil {
			log.Warn().Err(err).
				Str("method", "Service.Checkout").
				Str("order_id", dataCtx.Order.ID.String()).
				Msg("product cache invalidation failed")
		}
	}

	log.Info().
		Str("order_id", dataCtx.Order.ID.String()).
		Str("user_id", userID.String()).
		Str("total", dataCtx.Order.Total.String()).
		Int("items", len(dataCtx.Order.Items)).
		Msg("order placed")

	return dataCtx.Order.ID, nil
}

func (s *Service) observe(outcome string) {
	if s.observer != nil {
		s.observer.ObserveCheckout(outcome)
	}
}

func outcomeOf(err error) string {
	var stockErr *domain.InsufficientStockError

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return OutcomeEmptyCart
	case errors.As(err, &stockErr):
		return OutcomeInsufficientStock
	default:
		return OutcomeFailed
	}
}
