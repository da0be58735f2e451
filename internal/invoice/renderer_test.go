package invoice_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/invoice"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var copCurrency = currency.MustParseISO("COP")

func TestRender(t *testing.T) {
	ctx := context.Background()
	repos := memory.NewStore().Repositories()

	customer, err := repos.Users.CreateUser(ctx, domain.User{
		Username:     gofakeit.Username(),
		Email:        gofakeit.Email(),
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	product, err := repos.Products.CreateProduct(ctx, domain.Product{
		OwnerID: customer.ID,
		Name:    "Cuaderno rayado",
		Price:   domain.Money{Amount: decimal.NewFromInt(12), Currency: copCurrency},
		Stock:   10,
	})
	require.NoError(t, err)

	order, err := repos.Orders.InsertOrder(ctx, domain.Order{
		OwnerID: customer.ID,
		Status:  domain.OrderStatusPending,
		Total:   domain.ZeroMoney(copCurrency),
	})
	require.NoError(t, err)

	require.NoError(t, repos.Orders.InsertOrderItem(ctx, order.ID, domain.OrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    3,
		Price:       product.Price,
	}))
	require.NoError(t, repos.Orders.UpdateOrderTotal(ctx, order.ID,
		domain.Money{Amount: decimal.NewFromInt(36), Currency: copCurrency}))

	renderer, err := invoice.NewRenderer(repos.Orders, repos.Users)
	require.NoError(t, err)

	doc, err := renderer.Render(ctx, customer.ID, order.ID)
	require.NoError(t, err)

	assert.Equal(t, "factura_"+order.ID.String()+".pdf", doc.Filename)
	assert.Equal(t, invoice.ContentType, doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Body, []byte("%PDF-")))

	again, err := renderer.Render(ctx, customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.Body, again.Body, "rendering is deterministic")

	_, err = renderer.Render(ctx, uuid.New(), order.ID)
	require.ErrorIs(t, err, domain.ErrNotFound, "someone else's order")

	_, err = renderer.Render(ctx, customer.ID, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)
}
