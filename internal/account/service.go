package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"golang.org/x/crypto/bcrypt"
)

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

type Config struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

type Service struct {
	tx       port.Transactor
	users    port.UserRepository
	sessions port.SessionStore

	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func NewService(tx port.Transactor, users port.UserRepository, sessions port.SessionStore, cfg Config) (*Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx is nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users is nil")
	}
	if sessions == nil {
		return nil, fmt.Errorf("sessions is nil")
	}
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("secret is empty")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl is not positive")
	}

	cost := cfg.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	return &Service{
		tx:       tx,
		users:    users,
		sessions: sessions,
		secret:   cfg.Secret,
		ttl:      cfg.TokenTTL,
		cost:     cost,
		now:      time.Now,
	}, nil
}

// Register creates the user together with an empty profile.
func (s *Service) Register(ctx context.Context, reg domain.Registration) (domain.User, error) {
	if err := reg.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("reg.Validate: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password1), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword: %w", err)
	}

	var user domain.User

	err = s.tx.InTx(ctx, func(ctx context.Context, repos port.Repositories) error {
		created, err := repos.Users.CreateUser(ctx, domain.User{
			Username:     strings.TrimSpace(reg.Username),
			Email:        strings.TrimSpace(reg.Email),
			PasswordHash: string(hash),
		})
		if err != nil {
			return fmt.Errorf("repos.Users.CreateUser: %w", err)
		}

		if err := repos.Users.CreateProfile(ctx, domain.Profile{UserID: created.ID}); err != nil {
			return fmt.Errorf("repos.Users.CreateProfile: %w", err)
		}

		user = created
		return nil
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			verr := domain.NewValidationError()
			verr.Add(conflict.Field, conflictMessage(conflict.Field))
			return domain.User{}, verr
		}
		return domain.User{}, fmt.Errorf("s.tx.InTx: %w", err)
	}

	return user, nil
}

// Login issues a signed token and opens a session keyed by the token id.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Token{}, domain.ErrInvalidCredentials
		}
		return Token{}, fmt.Errorf("s.users.GetUserByUsername: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Token{}, domain.ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("token.SignedString: %w", err)
	}

	if err := s.sessions.Save(ctx, claims.ID, user.ID, s.ttl); err != nil {
		return Token{}, fmt.Errorf("s.sessions.Save: %w", err)
	}

	return Token{
		Value:     signed,
		ID:        claims.ID,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if tokenID == "" {
		return domain.ErrUnauthenticated
	}

	if err := s.sessions.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("s.sessions.Delete: %w", err)
	}

	return nil
}

// Authenticate resolves verified claims to a user id. A token whose session
// was closed by Logout is rejected even before it expires.
func (s *Service) Authenticate(ctx context.Context, claims *Claims) (uuid.UUID, error) {
	if claims == nil || claims.ID == "" {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	sessionUserID, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, domain.ErrUnauthenticated
		}
		return uuid.Nil, fmt.Errorf("s.sessions.Get: %w", err)
	}

	if sessionUserID != userID {
		return uuid.Nil, domain.ErrUnauthenticated
	}

	return userID, nil
}

// ParseToken verifies an HS256 token signed by this service.
func (s *Service) ParseToken(value string) (*Claims, error) {
	claims := &Claims{}

	_, err := jwt.ParseWithClaims(value, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("jwt.ParseWithClaims: %w", errors.Join(domain.ErrUnauthenticated, err))
	}

	return claims, nil
}

func (s *Service) Profile(ctx context.Context, userID uuid.UUID) (domain.User, domain.Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Profile{}, fmt.Errorf("s.users.GetUser: %w", err)
	}

	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Profile{}, fmt.Errorf("s.users.GetProfile: %w", err)
	}

	return user, profile, nil
}

func conflictMessage(field string) string {
	switch field {
	case "email":
		return "Ya existe un usuario con este correo electrónico."
	default:
		return "Ya existe un usuario con este nombre."
	}
}
