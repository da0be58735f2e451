package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	CreateProfile(ctx context.Context, profile domain.Profile) error

	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (domain.Profile, error)
}
