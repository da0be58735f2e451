package cart

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

const msgMinQuantity = "Asegúrese de que este valor es mayor o igual a 1."

// Service manages a user's cart. Stock is checked as an upper bound but
// never reserved; only checkout moves stock.
type Service struct {
	tx       port.Transactor
	carts    port.CartRepository
	shipping domain.Money
}

func NewService(tx port.Transactor, carts port.CartRepository, shipping domain.Money) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx is nil")
	}
	if carts == nil {
		return nil, fmt.Errorf("carts is nil")
	}
	if shipping.Amount.IsNegative() {
		return nil, fmt.Errorf("shipping is negative")
	}

	return &Service{
		tx:       tx,
		carts:    carts,
		shipping: shipping,
	}, nil
}

func (s *Service) GetOrCreate(ctx context.Context, userID uuid.UUID) (domain.Cart, error) {
	if userID == uuid.Nil {
		return domain.Cart{}, domain.ErrUnauthenticated
	}

	cart, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.carts.GetOrCreateCart: %w", err)
	}

	return cart, nil
}

// AddItem merges quantity into the product's line. The product row and the
// existing line are locked, so concurrent merges cannot exceed the stock.
func (s *Service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (domain.CartItem, error) {
	if userID == uuid.Nil {
		return domain.CartItem{}, domain.ErrUnauthenticated
	}
	if quantity < 1 {
		verr := domain.NewValidationError()
		verr.Add("cantidad", msgMinQuantity)
		return domain.CartItem{}, verr
	}

	var added domain.CartItem

	err := s.tx.InTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		cart, err := repos.Carts.GetOrCreateCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("repos.Carts.GetOrCreateCart: %w", err)
		}

		product, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return fmt.Errorf("lockProduct: %w", err)
		}

		existing, err := repos.Carts.GetItemForUpdate(ctx, cart.ID, productID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("repos.Carts.GetItemForUpdate: %w", err)
		}

		// compared as a difference, the sum may overflow
		if quantity > product.Stock-existing.Quantity {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   saturatingAdd(existing.Quantity, quantity),
				Available:   product.Stock,
			}
		}
		requested := existing.Quantity + quantity

		itemID, err := repos.Carts.UpsertItem(ctx, cart.ID, productID, requested)
		if err != nil {
			return fmt.Errorf("repos.Carts.UpsertItem: %w", err)
		}

		added = domain.CartItem{
			ID:          itemID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Stock:       product.Stock,
			Quantity:    requested,
		}

		return nil
	})
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("s.tx.InTx: %w", err)
	}

	return added, nil
}

// UpdateItem overwrites the line quantity; a quantity of zero or less removes the line.
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	err := s.tx.InTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		cart, err := repos.Carts.GetOrCreateCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("repos.Carts.GetOrCreateCart: %w", err)
		}

		// product before line, the same order as AddItem and checkout
		product, err := lockProduct(ctx, repos, productID)
		if err != nil {
			return fmt.Errorf("lockProduct: %w", err)
		}

		item, err := repos.Carts.GetItemForUpdate(ctx, cart.ID, productID)
		if err != nil {
			return fmt.Errorf("repos.Carts.GetItemForUpdate: %w", err)
		}

		if quantity <= 0 {
			if _, err := repos.Carts.DeleteItem(ctx, cart.ID, item.ID); err != nil {
				return fmt.Errorf("repos.Carts.DeleteItem: %w", err)
			}
			return nil
		}

		if quantity > product.Stock {
			return &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   quantity,
				Available:   product.Stock,
			}
		}

		if _, err := repos.Carts.UpsertItem(ctx, cart.ID, productID, quantity); err != nil {
			return fmt.Errorf("repos.Carts.UpsertItem: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("s.tx.InTx: %w", err)
	}

	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return fmt.Errorf("s.GetOrCreate: %w", err)
	}

	deleted, err := s.carts.DeleteItem(ctx, cart.ID, itemID)
	if err != nil {
		return fmt.Errorf("s.carts.DeleteItem: %w", err)
	}
	if !deleted {
		return fmt.Errorf("item[%s]: %w", itemID, domain.ErrNotFound)
	}

	return nil
}

func (s *Service) Detail(ctx context.Context, userID uuid.UUID) (domain.CartSummary, error) {
	cart, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("s.GetOrCreate: %w", err)
	}

	summary, err := domain.Summarize(cart, s.shipping)
	if err != nil {
		return domain.CartSummary{}, fmt.Errorf("domain.Summarize: %w", err)
	}

	return summary, nil
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func lockProduct(ctx context.Context, repos port.Repositories, productID uuid.UUID) (domain.Product, error) {
	products, err := repos.Products.GetProductsForUpdate(ctx, []uuid.UUID{productID})
	if err != nil {
		return domain.Product{}, fmt.Errorf("repos.Products.GetProductsForUpdate: %w", err)
	}
	if len(products) == 0 {
		return domain.Product{}, fmt.Errorf("product[%s]: %w", productID, domain.ErrNotFound)
	}

	return products[0], nil
}
