package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type cachedProduct struct {
	ID            uuid.UUID       `json:"id"`
	OwnerID       uuid.UUID       `json:"owner_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	PriceAmount   decimal.Decimal `json:"price_amount"`
	PriceCurrency string          `json:"price_currency"`
	Stock         int             `json:"stock"`
	Category      string          `json:"category"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type productCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) (port.ProductCache, error) {
	if rdb == nil {
		return nil, fmt.Errorf("rdb is nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("ttl is not positive")
	}

	return &productCache{rdb: rdb, ttl: ttl}, nil
}

func productKey(productID uuid.UUID) string {
	return fmt.Sprintf("product:%s", productID)
}

func (c *productCache) Get(ctx context.Context, productID uuid.UUID) (domain.Product, bool, error) {
	data, err := c.rdb.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Product{}, false, nil
		}
		return domain.Product{}, false, fmt.Errorf("rdb.Get: %w", err)
	}

	var cached cachedProduct
	if err := json.Unmarshal(data, &cached); err != nil {
		return domain.Product{}, false, fmt.Errorf("json.Unmarshal: %w", err)
	}

	cur, err := currency.ParseISO(cached.PriceCurrency)
	if err != nil {
		return domain.Product{}, false, fmt.Errorf("currency.ParseISO: %w", err)
	}

	return domain.Product{
		ID:          cached.ID,
		OwnerID:     cached.OwnerID,
		Name:        cached.Name,
		Description: cached.Description,
		Price:       domain.Money{Amount: cached.PriceAmount, Currency: cur},
		Stock:       cached.Stock,
		Category:    cached.Category,
		CreatedAt:   cached.CreatedAt,
		UpdatedAt:   cached.UpdatedAt,
	}, true, nil
}

func (c *productCache) Set(ctx context.Context, product domain.Product) error {
	data, err := json.Marshal(cachedProduct{
		ID:            product.ID,
		OwnerID:       product.OwnerID,
		Name:          product.Name,
		Description:   product.Description,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		Stock:         product.Stock,
		Category:      product.Category,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := c.rdb.Set(ctx, productKey(product.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("rdb.Set: %w", err)
	}

	return nil
}

func (c *productCache) Delete(ctx context.Context, productIDs ...uuid.UUID) error {
	if len(productIDs) == 0 {
		return nil
	}

	if err := c.rdb.Del(ctx, lo.Map(productIDs, func(id uuid.UUID, _ int) string {
		return productKey(id)
	})...).Err(); err != nil {
		return fmt.Errorf("rdb.Del: %w", err)
	}

	return nil
}
