package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/invoice"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/repository/memory"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/currency"
)

var copCurrency = currency.MustParseISO("COP")

var testSecret = []byte("test-secret")

type testServer struct {
	e       *echo.Echo
	store   *memory.Store
	repos   port.Repositories
	metrics *metrics.ServerMetrics
	seller  domain.User
}

func newTestServer(t *testing.T, cfg Config, opts ...func(*Deps)) testServer {
	t.Helper()

	store := memory.NewStore()
	repos := store.Repositories()
	cache := memory.NewProductCache()
	m := metrics.NewServerMetrics(prometheus.NewRegistry())

	accounts, err := account.NewService(store, repos.Users, memory.NewSessionStore(), account.Config{
		Secret:     testSecret,
		TokenTTL:   time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	require.NoError(t, err)

	catalogService, err := catalog.NewService(repos.Products, repos.Reviews, cache, copCurrency)
	require.NoError(t, err)

	carts, err := cart.NewService(store, repos.Carts, cop("5.00"))
	require.NoError(t, err)

	checkouts, err := checkout.NewService(store, repos.Carts, cache, m, checkout.Config{
		Currency: copCurrency,
		Shipping: decimal.RequireFromString("5.00"),
		Topic:    "orders",
	})
	require.NoError(t, err)

	invoices, err := invoice.NewRenderer(repos.Orders, repos.Users)
	require.NoError(t, err)

	cfg.Service = "storefront-test"
	cfg.JWTSecret = testSecret

	deps := Deps{
		Accounts:    accounts,
		Catalog:     catalogService,
		Carts:       carts,
		Checkout:    checkouts,
		Invoices:    invoices,
		Orders:      repos.Orders,
		Idempotency: memory.NewIdempotencyStore(),
		Metrics:     m,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e, err := New(deps, cfg)
	require.NoError(t, err)

	seller, err := repos.Users.CreateUser(context.Background(), domain.User{
		Username:     "seller" + gofakeit.LetterN(6),
		Email:        gofakeit.LetterN(8) + "@example.com",
		PasswordHash: "hash",
	})
	require.NoError(t, err)

	return testServer{e: e, store: store, repos: repos, metrics: m, seller: seller}
}

func (s testServer) do(t *testing.T, method, target, token string, form url.Values, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

// signUp registers a fresh user over HTTP and returns a bearer token.
func (s testServer) signUp(t *testing.T) string {
	t.Helper()

	username := "user" + gofakeit.LetterN(8)
	password := gofakeit.Password(true, true, true, false, false, 12)

	rec := s.do(t, http.MethodPost, "/users/register/", "", url.Values{
		"username":  {username},
		"email":     {username + "@example.com"},
		"password1": {password},
		"password2": {password},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/users/login/", "", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var token tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &token))
	require.NotEmpty(t, token.Token)

	return token.Token
}

func (s testServer) newProduct(t *testing.T, name, price string, stock int) domain.Product {
	t.Helper()

	product, err := s.repos.Products.CreateProduct(context.Background(), domain.Product{
		OwnerID:  s.seller.ID,
		Name:     name,
		Price:    cop(price),
		Stock:    stock,
		Category: "Electrónica",
	})
	require.NoError(t, err)

	return product
}

func (s testServer) addToCart(t *testing.T, token string, productID uuid.UUID, quantity string) *httptest.ResponseRecorder {
	t.Helper()
	return s.do(t, http.MethodPost, "/cart/add/"+productID.String()+"/", token, url.Values{"cantidad": {quantity}})
}

func checkoutValues() url.Values {
	return url.Values{
		"email":          {"ana@example.com"},
		"nombre":         {"Ana Gómez"},
		"telefono":       {"3001234567"},
		"ciudad":         {"Bogotá"},
		"direccion":      {"Calle 1 # 2-3"},
		"metodo_pago":    {"tarjeta"},
		"numero_tarjeta": {"4111111111111111"},
		"expiracion":     {"12/30"},
		"cvv":            {"123"},
	}
}

func flash(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	value, err := url.QueryUnescape(rec.Header().Get(flashHeader))
	require.NoError(t, err)

	return value
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

func cop(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: copCurrency}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "storefront-test", body["service"])
	assert.NotEmpty(t, body["time"])
}

func TestNew(t *testing.T) {
	_, err := New(Deps{}, Config{JWTSecret: testSecret})
	require.EqualError(t, err, "accounts is nil")
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Audífonos", "25.00", 10)

	rec := s.addToCart(t, token, product.ID, "2")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "success:Audífonos agregado al carrito", flash(t, rec))

	rec = s.do(t, http.MethodGet, "/orders/checkout/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	preview := decode[cartResponse](t, rec)
	require.Len(t, preview.Items, 1)
	assert.True(t, decimal.RequireFromString("50.00").Equal(preview.Total))
	assert.True(t, decimal.RequireFromString("5.00").Equal(preview.Shipping))
	assert.True(t, decimal.RequireFromString("55.00").Equal(preview.TotalWithShipping))

	rec = s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues())
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	location := rec.Header().Get(echo.HeaderLocation)
	require.True(t, strings.HasPrefix(location, "/orders/confirm/"), location)
	orderID := uuid.MustParse(strings.Trim(strings.TrimPrefix(location, "/orders/confirm/"), "/"))
	assert.Equal(t, "success:¡Orden #"+orderID.String()+" creada exitosamente!", flash(t, rec))

	rec = s.do(t, http.MethodGet, location, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode[orderResponse](t, rec)
	assert.Equal(t, orderID, order.ID)
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.True(t, decimal.RequireFromString("50.00").Equal(order.Total))
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	rec = s.do(t, http.MethodGet, "/cart/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[cartResponse](t, rec).Items)

	rec = s.do(t, http.MethodGet, "/orders/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]orderResponse](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, orderID, orders[0].ID)

	rec = s.do(t, http.MethodGet, "/orders/"+orderID.String()+"/factura/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, invoice.ContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "factura_"+orderID.String()+".pdf")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))

	stored, err := s.repos.Products.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, stored.Stock)

	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.Checkouts.WithLabelValues(checkout.OutcomePlaced)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.Requests.WithLabelValues("/orders/checkout/", "303")), 0)
}

func TestAddToCartInsufficientStock(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Teclado", "120.00", 1)

	rec := s.addToCart(t, token, product.ID, "2")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, productURL(product.ID), rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "error:No hay suficiente stock de Teclado", flash(t, rec))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, flashCookie, cookies[0].Name)
}

func TestAddToCartInvalidQuantity(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Mouse", "30.00", 5)

	tests := []struct {
		name     string
		quantity string
	}{
		{name: "not a number", quantity: "dos"},
		{name: "zero", quantity: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.addToCart(t, token, product.ID, tt.quantity)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			body := decode[errorResponse](t, rec)
			assert.Contains(t, body.Errors, "cantidad")
		})
	}
}

func TestUpdateAndRemoveCartLine(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Monitor", "700.00", 3)

	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "1").Code)

	update := func(quantity string) *httptest.ResponseRecorder {
		return s.do(t, http.MethodPost, "/cart/update/"+product.ID.String()+"/", token, url.Values{"cantidad": {quantity}})
	}

	rec := update("3")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "success:Cantidad actualizada", flash(t, rec))

	rec = update("4")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "error:No hay suficiente stock de Monitor", flash(t, rec))

	rec = s.do(t, http.MethodGet, "/cart/", token, nil)
	summary := decode[cartResponse](t, rec)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)

	rec = s.do(t, http.MethodPost, "/cart/remove/"+summary.Items[0].ID.String()+"/", token, url.Values{})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "success:Producto eliminado del carrito", flash(t, rec))

	rec = s.do(t, http.MethodPost, "/cart/remove/"+summary.Items[0].ID.String()+"/", token, url.Values{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutEmptyCart(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			var form url.Values
			if method == http.MethodPost {
				form = checkoutValues()
			}

			rec := s.do(t, method, "/orders/checkout/", token, form)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))
			assert.Equal(t, "warning:Tu carrito está vacío", flash(t, rec))
		})
	}
}

func TestCheckoutInvalidForm(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Cámara", "300.00", 2)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "1").Code)

	form := checkoutValues()
	form.Del("numero_tarjeta")
	form.Set("email", "not-an-email")

	rec := s.do(t, http.MethodPost, "/orders/checkout/", token, form)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[errorResponse](t, rec)
	assert.Equal(t, "Este campo es obligatorio para pagos con tarjeta.", body.Errors["numero_tarjeta"])
	assert.Contains(t, body.Errors, "email")

	stored, err := s.repos.Products.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Stock)
}

func TestCheckoutInsufficientStock(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Parlante", "80.00", 2)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "2").Code)

	require.NoError(t, s.repos.Products.UpdateStock(context.Background(), s.seller.ID, product.ID, 1))

	rec := s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "error:No hay suficiente stock de Parlante", flash(t, rec))

	rec = s.do(t, http.MethodGet, "/cart/", token, nil)
	assert.Len(t, decode[cartResponse](t, rec).Items, 1)
}

func TestCheckoutIdempotencyKey(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	product := s.newProduct(t, "Tablet", "900.00", 5)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "1").Code)

	key := uuid.NewString()

	first := s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, first.Code)

	// the cart is empty now, so only the stored key can produce this redirect
	second := s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, second.Code)
	assert.Equal(t, first.Header().Get(echo.HeaderLocation), second.Header().Get(echo.HeaderLocation))

	rec := s.do(t, http.MethodGet, "/orders/", token, nil)
	assert.Len(t, decode[[]orderResponse](t, rec), 1)

	stored, err := s.repos.Products.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Stock)
}

func TestCheckoutIdempotencyKeyReleasedOnFailure(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)
	key := uuid.NewString()

	rec := s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))

	product := s.newProduct(t, "Reloj", "150.00", 1)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "1").Code)

	rec = s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/orders/confirm/"))
}

// failingBindStore loses every Bind, as when redis drops after the order commits.
type failingBindStore struct {
	*memory.IdempotencyStore
	binds int
}

func (s *failingBindStore) Bind(context.Context, string, uuid.UUID) error {
	s.binds++
	return errors.New("connection reset")
}

func TestCheckoutIdempotencyKeyReleasedWhenBindFails(t *testing.T) {
	store := &failingBindStore{IdempotencyStore: memory.NewIdempotencyStore()}
	s := newTestServer(t, Config{}, func(d *Deps) { d.Idempotency = store })
	token := s.signUp(t)
	key := uuid.NewString()

	product := s.newProduct(t, "Bicicleta", "900.00", 2)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, token, product.ID, "1").Code)

	rec := s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/orders/confirm/"))
	assert.Equal(t, 2, store.binds)

	// the replay is not stuck on a pending key; the cart is already empty
	rec = s.do(t, http.MethodPost, "/orders/checkout/", token, checkoutValues(), idempotencyHeader, key)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, cartURL, rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "warning:Tu carrito está vacío", flash(t, rec))
}

func TestForeignOrderIsNotFound(t *testing.T) {
	s := newTestServer(t, Config{})
	buyer := s.signUp(t)
	other := s.signUp(t)
	product := s.newProduct(t, "Silla", "250.00", 3)
	require.Equal(t, http.StatusSeeOther, s.addToCart(t, buyer, product.ID, "1").Code)

	rec := s.do(t, http.MethodPost, "/orders/checkout/", buyer, checkoutValues())
	require.Equal(t, http.StatusSeeOther, rec.Code)
	location := rec.Header().Get(echo.HeaderLocation)
	orderID := strings.Trim(strings.TrimPrefix(location, "/orders/confirm/"), "/")

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, location, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/orders/"+orderID+"/factura/", other, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/orders/confirm/not-a-uuid/", buyer, nil).Code)
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, Config{})

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/cart/", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/cart/", "garbage", nil).Code)

	rec := s.do(t, http.MethodPost, "/users/login/", "", url.Values{"username": {"nobody"}, "password": {"secret123"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.signUp(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/cart/", token, nil).Code)

	rec = s.do(t, http.MethodGet, "/users/profile/", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[profileResponse](t, rec).Username)

	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/users/logout/", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/cart/", token, nil).Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t, Config{})

	rec := s.do(t, http.MethodPost, "/users/register/", "", url.Values{
		"username":  {"ana"},
		"email":     {"ana@example.com"},
		"password1": {"supersecret"},
		"password2": {"different1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Los dos campos de contraseña no coinciden.", decode[errorResponse](t, rec).Errors["password2"])
}

func TestAvailableProducts(t *testing.T) {
	s := newTestServer(t, Config{})
	s.newProduct(t, "Zapatos", "12345.67", 2)
	s.newProduct(t, "Agotado", "10.00", 0)
	s.newProduct(t, "Bolso", "99.00", 4)

	rec := s.do(t, http.MethodGet, "/products/api/available/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[productListResponse](t, rec)
	require.Equal(t, 2, body.Count)
	require.Len(t, body.Results, 2)
	assert.Equal(t, "Bolso", body.Results[0].Name)
	assert.Equal(t, "Zapatos", body.Results[1].Name)
	assert.Equal(t, "$ 12.345,67", body.Results[1].PriceDisplay)
	assert.Equal(t, "http://example.com"+productURL(body.Results[1].ID), body.Results[1].DetailURL)
}

func TestProductLifecycle(t *testing.T) {
	s := newTestServer(t, Config{})
	seller := s.signUp(t)
	buyer := s.signUp(t)

	rec := s.do(t, http.MethodPost, "/products/", seller, url.Values{
		"nombre":    {"  Lámpara  "},
		"precio":    {"45.50"},
		"stock":     {"7"},
		"categoria": {"Hogar"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "success:¡Producto creado exitosamente!", flash(t, rec))
	location := rec.Header().Get(echo.HeaderLocation)

	rec = s.do(t, http.MethodGet, location, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[productDetailResponse](t, rec)
	assert.Equal(t, "Lámpara", detail.Name)
	assert.Equal(t, 7, detail.Stock)
	assert.Empty(t, detail.Reviews)

	rec = s.do(t, http.MethodPost, location+"price/", buyer, url.Values{"precio": {"1.00"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodPost, location+"price/", seller, url.Values{"precio": {"49.99"}})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodPost, location+"stock/", seller, url.Values{"stock": {"2"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, location, "", nil)
	detail = decode[productDetailResponse](t, rec)
	assert.True(t, decimal.RequireFromString("49.99").Equal(detail.Price))
	assert.Equal(t, 2, detail.Stock)

	rec = s.do(t, http.MethodPost, location+"reviews/", buyer, url.Values{"rating": {"5"}, "comentario": {"Excelente"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "success:¡Reseña agregada exitosamente!", flash(t, rec))

	rec = s.do(t, http.MethodPost, location+"reviews/", buyer, url.Values{"rating": {"1"}, "comentario": {"Otra"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "error:Ya has reseñado este producto.", flash(t, rec))

	rec = s.do(t, http.MethodPost, location+"reviews/", seller, url.Values{"rating": {"9"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = s.do(t, http.MethodGet, "/products/top/reviewed/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	top := decode[[]scoredProductResponse](t, rec)
	require.Len(t, top, 1)
	assert.Equal(t, "Lámpara", top[0].Name)
}

func TestProductCreateValidation(t *testing.T) {
	s := newTestServer(t, Config{})
	token := s.signUp(t)

	rec := s.do(t, http.MethodPost, "/products/", token, url.Values{
		"nombre": {""},
		"precio": {"abc"},
		"stock":  {"-1"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Introduzca un número.", decode[errorResponse](t, rec).Errors["precio"])
}

func TestUnknownRanking(t *testing.T) {
	s := newTestServer(t, Config{})

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/products/top/cheapest/", "", nil).Code)
}

func TestRateLimiter(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: 1, RateBurst: 1})

	require.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decode[map[string]string](t, rec)["error"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, Config{})
	s.do(t, http.MethodGet, "/health", "", nil)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_http_requests_total{handler="/health",status="200"} 1`)
}

func TestToPaymentMethod(t *testing.T) {
	assert.Equal(t, domain.PaymentMethodCard, toPaymentMethod("tarjeta"))
	assert.Equal(t, domain.PaymentMethodPayPal, toPaymentMethod("paypal"))
	assert.Equal(t, domain.PaymentMethodCash, toPaymentMethod("efectivo"))
	assert.False(t, toPaymentMethod("bitcoin").Valid())
}
