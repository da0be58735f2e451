package repository_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
)

var copCurrency = currency.MustParseISO("COP")

// startPostgres runs a disposable PostgreSQL with the application schema applied.
func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("storefront"),
		postgres.WithUsername("storefront"),
		postgres.WithPassword("storefront"),
		postgres.WithInitScripts(filepath.Join("..", "..", "sql", "schema.sql")),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", fmt.Errorf("container.ConnectionString: %w", err)
	}

	return container, connStr, nil
}

var currencyComparer = cmp.Comparer(func(x, y currency.Unit) bool {
	return x.String() == y.String()
})

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func cop(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: copCurrency}
}

func createUser(t *testing.T, repos port.Repositories) domain.User {
	t.Helper()

	user, err := repos.Users.CreateUser(t.Context(), domain.User{
		Username:     gofakeit.Username() + gofakeit.LetterN(8),
		Email:        gofakeit.LetterN(12) + "@" + gofakeit.DomainName(),
		PasswordHash: "$2a$10$" + gofakeit.LetterN(53),
	})
	require.NoError(t, err)

	return user
}

func createProduct(t *testing.T, repos port.Repositories, ownerID uuid.UUID, name, price string, stock int) domain.Product {
	t.Helper()

	product, err := repos.Products.CreateProduct(t.Context(), domain.Product{
		OwnerID:     ownerID,
		Name:        name,
		Description: gofakeit.Sentence(8),
		Price:       cop(price),
		Stock:       stock,
		Category:    gofakeit.ProductCategory(),
	})
	require.NoError(t, err)

	return product
}
