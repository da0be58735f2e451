package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type userRepository struct {
	q *db.Queries
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{q: db.New(pool)}
}

func NewUserWithTx(tx pgx.Tx) port.UserRepository {
	return &userRepository{q: db.New(tx)}
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	row, err := r.q.CreateUser(ctx, db.CreateUserParams{
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("q.CreateUser: %w", uniqueUserField(err))
		}
		return domain.User{}, fmt.Errorf("q.CreateUser: %w", err)
	}

	user.ID = row.ID
	user.CreatedAt = row.CreatedAt

	return user, nil
}

func (r *userRepository) CreateProfile(ctx context.Context, profile domain.Profile) error {
	err := r.q.CreateProfile(ctx, db.CreateProfileParams{
		UserID:  profile.UserID,
		Phone:   profile.Phone,
		City:    profile.City,
		Address: profile.Address,
	})
	if err != nil {
		return fmt.Errorf("q.CreateProfile: %w", err)
	}

	return nil
}

func (r *userRepository) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	row, err := r.q.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("q.GetUser: %w", notFoundIfNoRows(err))
	}

	return mapUserToDomain(row), nil
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row, err := r.q.GetUserByUsername(ctx, username)
	if err != nil {
		return domain.User{}, fmt.Errorf("q.GetUserByUsername: %w", notFoundIfNoRows(err))
	}

	return mapUserToDomain(row), nil
}

func (r *userRepository) GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error) {
	row, err := r.q.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("q.GetProfile: %w", notFoundIfNoRows(err))
	}

	return domain.Profile{
		UserID:  row.UserID,
		Phone:   row.Phone,
		City:    row.City,
		Address: row.Address,
	}, nil
}

// uniqueUserField names the column behind a users_<column>_key violation.
func uniqueUserField(err error) *domain.ConflictError {
	_, constraint := pgErrorCode(err)

	field := strings.TrimSuffix(strings.TrimPrefix(constraint, "users_"), "_key")
	if field == "" || field == constraint {
		field = "username"
	}

	return &domain.ConflictError{Field: field}
}

func mapUserToDomain(row db.User) domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		CreatedAt:    row.CreatedAt,
	}
}
