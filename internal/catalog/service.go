package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const TopLimit = 10

type Service struct {
	products port.ProductRepository
	reviews  port.ReviewRepository
	cache    port.ProductCache
	currency currency.Unit
}

// NewService builds the catalog; cache may be nil.
func NewService(products port.ProductRepository, reviews port.ReviewRepository, cache port.ProductCache, cur currency.Unit) (*Service, error) {
	if products == nil {
		return nil, fmt.Errorf("products is nil")
	}
	if reviews == nil {
		return nil, fmt.Errorf("reviews is nil")
	}
	if cur == (currency.Unit{}) {
		return nil, fmt.Errorf("currency is empty")
	}

	return &Service{
		products: products,
		reviews:  reviews,
		cache:    cache,
		currency: cur,
	}, nil
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, input domain.NewProduct) (domain.Product, error) {
	if ownerID == uuid.Nil {
		return domain.Product{}, domain.ErrUnauthenticated
	}

	if err := input.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("input.Validate: %w", err)
	}

	product, err := s.products.CreateProduct(ctx, domain.Product{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       domain.Money{Amount: input.Price, Currency: s.currency},
		Stock:       input.Stock,
		Category:    strings.TrimSpace(input.Category),
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.CreateProduct: %w", err)
	}

	return product, nil
}

// Get reads through the product cache. Cache failures are logged and fall back to the store.
func (s *Service) Get(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	if s.cache != nil {
		product, ok, err := s.cache.Get(ctx, productID)
		if err != nil {
			log.Warn().Err(err).Str("method", "Service.Get").Msg("product cache read failed")
		} else if ok {
			return product, nil
		}
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.GetProduct: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			log.Warn().Err(err).Str("method", "Service.Get").Msg("product cache write failed")
		}
	}

	return product, nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	products, err := s.products.ListAvailableProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.products.ListAvailableProducts: %w", err)
	}

	return products, nil
}

func (s *Service) Reprice(ctx context.Context, ownerID, productID uuid.UUID, price decimal.Decimal) error {
	if err := domain.ValidatePrice(price); err != nil {
		verr := domain.NewValidationError()
		verr.Add("precio", err.Error())
		return verr
	}

	if err := s.checkOwner(ctx, ownerID, productID); err != nil {
		return fmt.Errorf("s.checkOwner: %w", err)
	}

	if err := s.products.UpdatePrice(ctx, ownerID, productID, domain.Money{Amount: price, Currency: s.currency}); err != nil {
		return fmt.Errorf("s.products.UpdatePrice: %w", err)
	}

	s.invalidate(ctx, productID)

	return nil
}

func (s *Service) Restock(ctx context.Context, ownerID, productID uuid.UUID, stock int) error {
	if err := domain.ValidateStock(stock); err != nil {
		verr := domain.NewValidationError()
		verr.Add("stock", err.Error())
		return verr
	}

	if err := s.checkOwner(ctx, ownerID, productID); err != nil {
		return fmt.Errorf("s.checkOwner: %w", err)
	}

	if err := s.products.UpdateStock(ctx, ownerID, productID, stock); err != nil {
		return fmt.Errorf("s.products.UpdateStock: %w", err)
	}

	s.invalidate(ctx, productID)

	return nil
}

func (s *Service) AddReview(ctx context.Context, userID, productID uuid.UUID, rating int, comment string) (domain.Review, error) {
	if userID == uuid.Nil {
		return domain.Review{}, domain.ErrUnauthenticated
	}

	review := domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := review.Validate(); err != nil {
		return domain.Review{}, fmt.Errorf("review.Validate: %w", err)
	}

	review, err := s.reviews.CreateReview(ctx, review)
	if err != nil {
		return domain.Review{}, fmt.Errorf("s.reviews.CreateReview: %w", err)
	}

	return review, nil
}

func (s *Service) Reviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.reviews.ListProductReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("s.reviews.ListProductReviews: %w", err)
	}

	return reviews, nil
}

func (s *Service) Top(ctx context.Context, ranking domain.ProductRanking) ([]domain.ScoredProduct, error) {
	products, err := s.products.TopProducts(ctx, ranking, TopLimit)
	if err != nil {
		return nil, fmt.Errorf("s.products.TopProducts[%s]: %w", ranking, err)
	}

	return products, nil
}

func (s *Service) TopSold(ctx context.Context) ([]domain.ScoredProduct, error) {
	return s.Top(ctx, domain.RankingSold)
}

func (s *Service) TopReviewed(ctx context.Context) ([]domain.ScoredProduct, error) {
	return s.Top(ctx, domain.RankingReviewed)
}

func (s *Service) TopRated(ctx context.Context) ([]domain.ScoredProduct, error) {
	return s.Top(ctx, domain.RankingRated)
}

func (s *Service) checkOwner(ctx context.Context, ownerID, productID uuid.UUID) error {
	if ownerID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("s.products.GetProduct: %w", err)
	}

	if product.OwnerID != ownerID {
		return domain.ErrForbidden
	}

	return nil
}

func (s *Service) invalidate(ctx context.Context, productID uuid.UUID) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(ctx, productID); err != nil {
		log.Warn().Err(err).
			Str("method", "Service.invalidate").
			Str("product_id", productID.String()).
			Msg("product cache invalidation failed")
	}
}
