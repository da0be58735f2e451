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

type reviewRepository struct {
	q *db.Queries
}

func NewReview(pool *pgxpool.Pool) port.ReviewRepository {
	return &reviewRepository{q: db.New(pool)}
}

func NewReviewWithTx(tx pgx.Tx) port.ReviewRepository {
	return &reviewRepository{q: db.New(tx)}
}

func (r *reviewRepository) CreateReview(ctx context.Context, review domain.Review) (domain.Review, error) {
	row, err := r.q.CreateReview(ctx, db.CreateReviewParams{
		ProductID: review.ProductID,
		UserID:    review.UserID,
		Rating:    int16(review.Rating),
		Comment:   review.Comment,
	})
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.Review{}, fmt.Errorf("q.CreateReview: %w", domain.ErrAlreadyReviewed)
		case isForeignKeyViolation(err):
			return domain.Review{}, fmt.Errorf("q.CreateReview: %w", domain.ErrNotFound)
		}
		return domain.Review{}, fmt.Errorf("q.CreateReview: %w", err)
	}

	review.ID = row.ID
	review.CreatedAt = row.CreatedAt

	return review, nil
}

func (r *reviewRepository) ListProductReviews(ctx context.Context, productID uuid.UUID) ([]domain.Review, error) {
	rows, err := r.q.ListProductReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("q.ListProductReviews: %w", err)
	}

	return lo.Map(rows, func(row db.Review, _ int) domain.Review {
		return domain.Review{
			ID:        row.ID,
			ProductID: row.ProductID,
			UserID:    row.UserID,
			Rating:    int(row.Rating),
			Comment:   row.Comment,
			CreatedAt: row.CreatedAt,
		}
	}), nil
}
