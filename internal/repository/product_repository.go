package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/samber/lo"
)

type productRepository struct {
	q *db.Queries
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{q: db.New(pool)}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{q: db.New(tx)}
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	price := product.Price.Round()

	row, err := r.q.CreateProduct(ctx, db.CreateProductParams{
		OwnerID:       product.OwnerID,
		Name:          product.Name,
		Description:   product.Description,
		PriceAmount:   price.Amount,
		PriceCurrency: price.Currency.String(),
		Stock:         int32(product.Stock),
		Category:      product.Category,
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Product{}, fmt.Errorf("q.CreateProduct: owner: %w", domain.ErrNotFound)
		}
		return domain.Product{}, fmt.Errorf("q.CreateProduct: %w", err)
	}

	product.ID = row.ID
	product.Price = price
	product.CreatedAt = row.CreatedAt
	product.UpdatedAt = row.UpdatedAt

	return product, nil
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", notFoundIfNoRows(err))
	}

	product, err := mapProductToDomain(dbProduct)
	if err != nil {
		return domain.Product{}, fmt.Errorf("mapProductToDomain: %w", err)
	}

	return product, nil
}

func (r *productRepository) GetProductsForUpdate(ctx context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	dbProducts, err := r.q.GetProductsForUpdate(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("q.GetProductsForUpdate: %w", err)
	}

	products, err := mapProductsToDomain(dbProducts)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func (r *productRepository) ListAvailableProducts(ctx context.Context) ([]domain.Product, error) {
	dbProducts, err := r.q.ListAvailableProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("q.ListAvailableProducts: %w", err)
	}

	products, err := mapProductsToDomain(dbProducts)
	if err != nil {
		return nil, fmt.Errorf("mapProductsToDomain: %w", err)
	}

	return products, nil
}

func (r *productRepository) UpdatePrice(ctx context.Context, ownerID, productID uuid.UUID, price domain.Money) error {
	price = price.Round()

	rowsAffected, err := r.q.UpdateProductPrice(ctx, db.UpdateProductPriceParams{
		PriceAmount:   price.Amount,
		PriceCurrency: price.Currency.String(),
		ID:            productID,
		OwnerID:       ownerID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateProductPrice: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.UpdateProductPrice: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *productRepository) UpdateStock(ctx context.Context, ownerID, productID uuid.UUID, stock int) error {
	if stock < 0 {
		return fmt.Errorf("stock is negative")
	}

	rowsAffected, err := r.q.UpdateProductStock(ctx, db.UpdateProductStockParams{
		Stock:   int32(stock),
		ID:      productID,
		OwnerID: ownerID,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateProductStock: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.UpdateProductStock: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity is not positive")
	}

	rowsAffected, err := r.q.DecrementProductStock(ctx, db.DecrementProductStockParams{
		Quantity: int32(quantity),
		ID:       productID,
	})
	if err != nil {
		return false, fmt.Errorf("q.DecrementProductStock: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *productRepository) TopProducts(ctx context.Context, ranking domain.ProductRanking, limit int) ([]domain.ScoredProduct, error) {
	var (
		rows []db.TopSoldProductsRow
		err  error
	)

	// the three ranking queries share one row shape
	switch ranking {
	case domain.RankingSold:
		rows, err = r.q.TopSoldProducts(ctx, int32(limit))
	case domain.RankingReviewed:
		var reviewed []db.TopReviewedProductsRow
		reviewed, err = r.q.TopReviewedProducts(ctx, int32(limit))
		rows = lo.Map(reviewed, func(row db.TopReviewedProductsRow, _ int) db.TopSoldProductsRow {
			return db.TopSoldProductsRow(row)
		})
	case domain.RankingRated:
		var rated []db.TopRatedProductsRow
		rated, err = r.q.TopRatedProducts(ctx, int32(limit))
		rows = lo.Map(rated, func(row db.TopRatedProductsRow, _ int) db.TopSoldProductsRow {
			return db.TopSoldProductsRow(row)
		})
	default:
		return nil, fmt.Errorf("ranking[%s] is not valid", ranking)
	}
	if err != nil {
		return nil, fmt.Errorf("q.Top[%s]Products: %w", ranking, err)
	}

	result := make([]domain.ScoredProduct, 0, len(rows))
	for _, row := range rows {
		product, err := mapProductToDomain(db.Product{
			ID:            row.ID,
			OwnerID:       row.OwnerID,
			Name:          row.Name,
			Description:   row.Description,
			PriceAmount:   row.PriceAmount,
			PriceCurrency: row.PriceCurrency,
			Stock:         row.Stock,
			Category:      row.Category,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		result = append(result, domain.ScoredProduct{Product: product, Score: row.Score})
	}

	return result, nil
}

func mapProductToDomain(row db.Product) (domain.Product, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, err
	}

	return domain.Product{
		ID:          row.ID,
		OwnerID:     row.OwnerID,
		Name:        row.Name,
		Description: row.Description,
		Price:       price,
		Stock:       int(row.Stock),
		Category:    row.Category,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func mapProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	var products []domain.Product

	for _, row := range rows {
		product, err := mapProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapProductToDomain: %w", err)
		}

		products = append(products, product)
	}

	return products, nil
}
