package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

func (v *view) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	err := v.write("CreateProduct", func(st *state) error {
		if _, ok := st.users[product.OwnerID]; !ok {
			return fmt.Errorf("owner: %w", domain.ErrNotFound)
		}
		if product.Stock < 0 {
			return fmt.Errorf("stock is negative")
		}

		product.ID = uuid.New()
		product.Price = product.Price.Round()
		product.CreatedAt = v.now()
		product.UpdatedAt = product.CreatedAt
		st.products[product.ID] = product

		return nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("CreateProduct: %w", err)
	}

	return product, nil
}

func (v *view) GetProduct(_ context.Context, productID uuid.UUID) (domain.Product, error) {
	var product domain.Product

	err := v.read(func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return domain.ErrNotFound
		}
		product = p
		return nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("GetProduct: %w", err)
	}

	return product, nil
}

func (v *view) GetProductsForUpdate(_ context.Context, productIDs []uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product

	_ = v.read(func(st *state) error {
		for _, id := range productIDs {
			if p, ok := st.products[id]; ok {
				products = append(products, p)
			}
		}
		return nil
	})

	slices.SortFunc(products, func(a, b domain.Product) int {
		return cmp.Compare(a.ID.String(), b.ID.String())
	})

	return slices.CompactFunc(products, func(a, b domain.Product) bool { return a.ID == b.ID }), nil
}

func (v *view) ListAvailableProducts(_ context.Context) ([]domain.Product, error) {
	var products []domain.Product

	_ = v.read(func(st *state) error {
		for _, p := range st.products {
			if p.Stock > 0 {
				products = append(products, p)
			}
		}
		return nil
	})

	slices.SortFunc(products, func(a, b domain.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})

	return products, nil
}

func (v *view) UpdatePrice(_ context.Context, ownerID, productID uuid.UUID, price domain.Money) error {
	return v.updateOwned("UpdatePrice", ownerID, productID, func(p *domain.Product) error {
		p.Price = price.Round()
		return nil
	})
}

func (v *view) UpdateStock(_ context.Context, ownerID, productID uuid.UUID, stock int) error {
	return v.updateOwned("UpdateStock", ownerID, productID, func(p *domain.Product) error {
		if stock < 0 {
			return fmt.Errorf("stock is negative")
		}
		p.Stock = stock
		return nil
	})
}

func (v *view) updateOwned(op string, ownerID, productID uuid.UUID, fn func(p *domain.Product) error) error {
	err := v.write(op, func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.OwnerID != ownerID {
			return domain.ErrNotFound
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.UpdatedAt = v.now()
		st.products[productID] = p
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (v *view) DecrementStock(_ context.Context, productID uuid.UUID, quantity int) (bool, error) {
	if quantity <= 0 {
		return false, fmt.Errorf("quantity is not positive")
	}

	var decremented bool

	err := v.write("DecrementStock", func(st *state) error {
		p, ok := st.products[productID]
		if !ok || p.Stock < quantity {
			return nil
		}
		p.Stock -= quantity
		p.UpdatedAt = v.now()
		st.products[productID] = p
		decremented = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("DecrementStock: %w", err)
	}

	return decremented, nil
}

func (v *view) TopProducts(_ context.Context, ranking domain.ProductRanking, limit int) ([]domain.ScoredProduct, error) {
	var result []domain.ScoredProduct

	err := v.read(func(st *state) error {
		sold := make(map[uuid.UUID]int)
		for _, order := range st.orders {
			for _, item := range order.Items {
				sold[item.ProductID] += item.Quantity
			}
		}

		ratings := make(map[uuid.UUID][]int)
		for _, r := range st.reviews {
			ratings[r.ProductID] = append(ratings[r.ProductID], r.Rating)
		}

		for id, p := range st.products {
			var score decimal.Decimal

			switch ranking {
			case domain.RankingSold:
				score = decimal.NewFromInt(int64(sold[id]))
			case domain.RankingReviewed:
				score = decimal.NewFromInt(int64(len(ratings[id])))
			case domain.RankingRated:
				if len(ratings[id]) == 0 {
					continue
				}
				sum := 0
				for _, r := range ratings[id] {
					sum += r
				}
				score = decimal.NewFromInt(int64(sum)).
					DivRound(decimal.NewFromInt(int64(len(ratings[id]))), domain.MoneyScale)
			default:
				return fmt.Errorf("ranking[%s] is not valid", ranking)
			}

			result = append(result, domain.ScoredProduct{Product: p, Score: score})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(result, func(a, b domain.ScoredProduct) int {
		return cmp.Or(b.Score.Cmp(a.Score), cmp.Compare(a.Name, b.Name))
	})

	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (v *view) CreateReview(_ context.Context, review domain.Review) (domain.Review, error) {
	err := v.write("CreateReview", func(st *state) error {
		if _, ok := st.products[review.ProductID]; !ok {
			return domain.ErrNotFound
		}
		if _, ok := st.users[review.UserID]; !ok {
			return domain.ErrNotFound
		}
		for _, r := range st.reviews {
			if r.ProductID == review.ProductID && r.UserID == review.UserID {
				return domain.ErrAlreadyReviewed
			}
		}

		review.ID = uuid.New()
		review.CreatedAt = v.now()
		st.reviews = append(st.reviews, review)
		return nil
	})
	if err != nil {
		return domain.Review{}, fmt.Errorf("CreateReview: %w", err)
	}

	return review, nil
}

func (v *view) ListProductReviews(_ context.Context, productID uuid.UUID) ([]domain.Review, error) {
	var reviews []domain.Review

	_ = v.read(func(st *state) error {
		for _, r := range st.reviews {
			if r.ProductID == productID {
				reviews = append(reviews, r)
			}
		}
		return nil
	})

	// newest first
	slices.Reverse(reviews)

	return reviews, nil
}
