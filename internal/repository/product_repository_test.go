package repository_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type productRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	repos     port.Repositories
	container testcontainers.Container

	seller domain.User
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(productRepositorySuite))
}

func (suite *productRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repos = repository.NewRepositories(suite.pool)
	suite.seller = createUser(suite.T(), suite.repos)
}

func (suite *productRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

// products are shared by rankings and listings, so every test starts clean
func (suite *productRepositorySuite) SetupTest() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE products, outbox CASCADE")
	suite.Require().NoError(err)
}

func (suite *productRepositorySuite) TestCreateProduct() {
	tests := []struct {
		name      string
		product   domain.Product
		wantError error
	}{
		{
			name: "valid product: ok",
			product: domain.Product{
				OwnerID:     suite.seller.ID,
				Name:        "Audífonos",
				Description: "Inalámbricos",
				Price:       cop("25.00"),
				Stock:       10,
				Category:    "Electrónica",
			},
		},
		{
			name: "price rounded to cents: ok",
			product: domain.Product{
				OwnerID: suite.seller.ID,
				Name:    "Cable",
				Price:   cop("3.345"),
				Stock:   1,
			},
		},
		{
			name: "unknown owner: not found",
			product: domain.Product{
				OwnerID: uuid.New(),
				Name:    "Huérfano",
				Price:   cop("1.00"),
			},
			wantError: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			created, err := suite.repos.Products.CreateProduct(ctx, tt.product)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			actual, err := suite.repos.Products.GetProduct(ctx, created.ID)
			require.NoError(t, err)

			expected := tt.product
			expected.ID = created.ID
			expected.Price = tt.product.Price.Round()

			assertProduct(t, expected, actual)
		})
	}
}

func (suite *productRepositorySuite) TestGetProductNotFound() {
	_, err := suite.repos.Products.GetProduct(suite.T().Context(), uuid.New())
	suite.Require().ErrorIs(err, domain.ErrNotFound)
}

func (suite *productRepositorySuite) TestListAvailableProducts() {
	t := suite.T()

	createProduct(t, suite.repos, suite.seller.ID, "Zapatos", "80.00", 2)
	createProduct(t, suite.repos, suite.seller.ID, "Agotado", "10.00", 0)
	createProduct(t, suite.repos, suite.seller.ID, "Bolso", "99.00", 4)

	products, err := suite.repos.Products.ListAvailableProducts(t.Context())
	require.NoError(t, err)

	names := lo.Map(products, func(p domain.Product, _ int) string { return p.Name })
	assert.Equal(t, []string{"Bolso", "Zapatos"}, names)
}

func (suite *productRepositorySuite) TestUpdatePriceAndStock() {
	t := suite.T()
	ctx := t.Context()

	product := createProduct(t, suite.repos, suite.seller.ID, "Monitor", "700.00", 3)
	stranger := createUser(t, suite.repos)

	err := suite.repos.Products.UpdatePrice(ctx, stranger.ID, product.ID, cop("1.00"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = suite.repos.Products.UpdateStock(ctx, stranger.ID, product.ID, 100)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, suite.repos.Products.UpdatePrice(ctx, suite.seller.ID, product.ID, cop("650.50")))
	require.NoError(t, suite.repos.Products.UpdateStock(ctx, suite.seller.ID, product.ID, 9))

	err = suite.repos.Products.UpdateStock(ctx, suite.seller.ID, product.ID, -1)
	require.EqualError(t, err, "stock is negative")

	actual, err := suite.repos.Products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, cop("650.50").Equal(actual.Price))
	assert.Equal(t, 9, actual.Stock)
	assert.False(t, actual.UpdatedAt.Before(product.UpdatedAt))
}

func (suite *productRepositorySuite) TestDecrementStock() {
	product := createProduct(suite.T(), suite.repos, suite.seller.ID, "Teclado", "120.00", 5)

	tests := []struct {
		name      string
		quantity  int
		wantOK    bool
		wantStock int
		wantError string
	}{
		{
			name:      "enough stock: ok",
			quantity:  3,
			wantOK:    true,
			wantStock: 2,
		},
		{
			name:      "more than available: refused",
			quantity:  3,
			wantOK:    false,
			wantStock: 2,
		},
		{
			name:      "exactly the rest: ok",
			quantity:  2,
			wantOK:    true,
			wantStock: 0,
		},
		{
			name:      "non positive quantity: fail",
			quantity:  0,
			wantStock: 0,
			wantError: "quantity is not positive",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()

			ok, err := suite.repos.Products.DecrementStock(ctx, product.ID, tt.quantity)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantOK, ok)
			}

			actual, err := suite.repos.Products.GetProduct(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStock, actual.Stock)
		})
	}
}

func (suite *productRepositorySuite) TestGetProductsForUpdate() {
	t := suite.T()
	ctx := t.Context()

	first := createProduct(t, suite.repos, suite.seller.ID, "Uno", "1.00", 1)
	second := createProduct(t, suite.repos, suite.seller.ID, "Dos", "2.00", 2)

	products, err := suite.repos.Products.GetProductsForUpdate(ctx, []uuid.UUID{second.ID, first.ID, uuid.New()})
	require.NoError(t, err)

	ids := lo.Map(products, func(p domain.Product, _ int) uuid.UUID { return p.ID })
	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, ids)

	products, err = suite.repos.Products.GetProductsForUpdate(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func (suite *productRepositorySuite) TestReviews() {
	t := suite.T()
	ctx := t.Context()

	product := createProduct(t, suite.repos, suite.seller.ID, "Libro", "40.00", 5)
	reader := createUser(t, suite.repos)

	review, err := suite.repos.Reviews.CreateReview(ctx, domain.Review{
		ProductID: product.ID,
		UserID:    reader.ID,
		Rating:    4,
		Comment:   "Muy bueno",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, review.ID)

	_, err = suite.repos.Reviews.CreateReview(ctx, domain.Review{ProductID: product.ID, UserID: reader.ID, Rating: 1})
	require.ErrorIs(t, err, domain.ErrAlreadyReviewed)

	_, err = suite.repos.Reviews.CreateReview(ctx, domain.Review{ProductID: uuid.New(), UserID: reader.ID, Rating: 1})
	require.ErrorIs(t, err, domain.ErrNotFound)

	reviews, err := suite.repos.Reviews.ListProductReviews(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "Muy bueno", reviews[0].Comment)
	assert.Equal(t, 4, reviews[0].Rating)
}

func (suite *productRepositorySuite) TestTopProducts() {
	t := suite.T()
	ctx := t.Context()

	popular := createProduct(t, suite.repos, suite.seller.ID, "Popular", "10.00", 50)
	niche := createProduct(t, suite.repos, suite.seller.ID, "Nicho", "10.00", 50)
	createProduct(t, suite.repos, suite.seller.ID, "Olvidado", "10.00", 50)

	for _, rating := range []int{5, 4} {
		reader := createUser(t, suite.repos)
		_, err := suite.repos.Reviews.CreateReview(ctx, domain.Review{ProductID: popular.ID, UserID: reader.ID, Rating: rating})
		require.NoError(t, err)
	}
	reader := createUser(t, suite.repos)
	_, err := suite.repos.Reviews.CreateReview(ctx, domain.Review{ProductID: niche.ID, UserID: reader.ID, Rating: 5})
	require.NoError(t, err)

	buyer := createUser(t, suite.repos)
	order, err := suite.repos.Orders.InsertOrder(ctx, domain.Order{OwnerID: buyer.ID, Total: domain.ZeroMoney(copCurrency)})
	require.NoError(t, err)
	require.NoError(t, suite.repos.Orders.InsertOrderItem(ctx, order.ID, domain.OrderItem{
		ProductID: niche.ID, ProductName: niche.Name, Quantity: 7, Price: niche.Price,
	}))

	tests := []struct {
		name       string
		ranking    domain.ProductRanking
		wantFirst  string
		wantScore  string
		wantLength int
	}{
		{name: "sold", ranking: domain.RankingSold, wantFirst: "Nicho", wantScore: "7"},
		{name: "reviewed", ranking: domain.RankingReviewed, wantFirst: "Popular", wantScore: "2"},
		{name: "rated", ranking: domain.RankingRated, wantFirst: "Nicho", wantScore: "5", wantLength: 2},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			top, err := suite.repos.Products.TopProducts(t.Context(), tt.ranking, 10)
			require.NoError(t, err)
			require.NotEmpty(t, top)

			assert.Equal(t, tt.wantFirst, top[0].Name)
			assert.True(t, decimal.RequireFromString(tt.wantScore).Equal(top[0].Score), top[0].Score.String())
			if tt.wantLength > 0 {
				assert.Len(t, top, tt.wantLength)
			}
		})
	}

	_, err = suite.repos.Products.TopProducts(ctx, "cheapest", 10)
	require.EqualError(t, err, "ranking[cheapest] is not valid")
}

func (suite *productRepositorySuite) TestUsers() {
	t := suite.T()
	ctx := t.Context()

	user := createUser(t, suite.repos)
	require.NoError(t, suite.repos.Users.CreateProfile(ctx, domain.Profile{UserID: user.ID, City: "Cali"}))

	byName, err := suite.repos.Users.GetUserByUsername(ctx, user.Username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, user.Email, byName.Email)

	profile, err := suite.repos.Users.GetProfile(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cali", profile.City)

	_, err = suite.repos.Users.GetUser(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	tests := []struct {
		name      string
		user      domain.User
		wantField string
	}{
		{
			name:      "duplicate username: conflict",
			user:      domain.User{Username: user.Username, Email: "other@example.com", PasswordHash: "x"},
			wantField: "username",
		},
		{
			name:      "duplicate email: conflict",
			user:      domain.User{Username: user.Username + "2", Email: user.Email, PasswordHash: "x"},
			wantField: "email",
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.repos.Users.CreateUser(suite.T().Context(), tt.user)

			var conflict *domain.ConflictError
			require.ErrorAs(suite.T(), err, &conflict)
			assert.Equal(suite.T(), tt.wantField, conflict.Field)
		})
	}
}

func (suite *productRepositorySuite) TestOutbox() {
	t := suite.T()
	ctx := t.Context()

	payload, err := json.Marshal(domain.OrderCreatedEvent{Type: domain.EventOrderCreated, OrderID: uuid.New()})
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, suite.repos.Outbox.InsertRecord(ctx, domain.OutboxRecord{
			EventID: uuid.New(),
			Topic:   "orders",
			Key:     uuid.NewString(),
			Payload: payload,
		}))
	}

	err = suite.repos.Outbox.InsertRecord(ctx, domain.OutboxRecord{EventID: uuid.New(), Payload: payload})
	require.EqualError(t, err, "topic is empty")

	pending, err := suite.repos.Outbox.FetchPending(ctx, 2)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Less(t, pending[0].ID, pending[1].ID)
	assert.JSONEq(t, string(payload), string(pending[0].Payload))

	require.NoError(t, suite.repos.Outbox.MarkSent(ctx, lo.Map(pending, func(r domain.OutboxRecord, _ int) int64 { return r.ID })))

	pending, err = suite.repos.Outbox.FetchPending(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
	assert.Nil(t, pending[0].SentAt)
}

func assertProduct(t *testing.T, expected, actual domain.Product) {
	t.Helper()

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"),
		currencyComparer,
		decimalComparer,
	}

	diff := cmp.Diff(expected, actual, opts)
	assert.Empty(t, diff)

	assert.False(t, actual.CreatedAt.IsZero())
}
