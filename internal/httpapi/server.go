package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/cart"
	"github.com/nikolayk812/storefront/internal/catalog"
	"github.com/nikolayk812/storefront/internal/checkout"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/invoice"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/nikolayk812/storefront/internal/port"
)

// Deps are the services behind the HTTP surface. Idempotency is optional.
type Deps struct {
	Accounts    *account.Service
	Catalog     *catalog.Service
	Carts       *cart.Service
	Checkout    *checkout.Service
	Invoices    *invoice.Renderer
	Orders      port.OrderRepository
	Idempotency port.IdempotencyStore
	Metrics     *metrics.ServerMetrics
}

type Config struct {
	Service   string
	JWTSecret []byte
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit float64
	RateBurst int
}

type handler struct {
	Deps
	service string
}

func New(deps Deps, cfg Config) (*echo.Echo, error) {
	switch {
	case deps.Accounts == nil:
		return nil, fmt.Errorf("accounts is nil")
	case deps.Catalog == nil:
		return nil, fmt.Errorf("catalog is nil")
	case deps.Carts == nil:
		return nil, fmt.Errorf("carts is nil")
	case deps.Checkout == nil:
		return nil, fmt.Errorf("checkout is nil")
	case deps.Invoices == nil:
		return nil, fmt.Errorf("invoices is nil")
	case deps.Orders == nil:
		return nil, fmt.Errorf("orders is nil")
	case deps.Metrics == nil:
		return nil, fmt.Errorf("metrics is nil")
	}
	if len(cfg.JWTSecret) == 0 {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	h := &handler{Deps: deps, service: cfg.Service}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handleError

	e.Use(middleware.Recover())
	e.Use(requestLogger())
	e.Use(observeRequests(deps.Metrics))
	if cfg.RateLimit > 0 {
		e.Use(rateLimiter(cfg.RateLimit, cfg.RateBurst))
	}

	authed := []echo.MiddlewareFunc{
		echojwt.WithConfig(echojwt.Config{
			SigningKey:    cfg.JWTSecret,
			SigningMethod: echojwt.AlgorithmHS256,
			NewClaimsFunc: func(echo.Context) jwt.Claims {
				return new(account.Claims)
			},
			ErrorHandler: func(echo.Context, error) error {
				return domain.ErrUnauthenticated
			},
		}),
		h.requireSession,
	}

	e.GET("/health", h.health)
	e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))

	e.POST("/users/register/", h.register)
	e.POST("/users/login/", h.login)
	e.POST("/users/logout/", h.logout, authed...)
	e.GET("/users/profile/", h.profile, authed...)

	e.GET("/products/", h.listProducts)
	e.GET("/products/api/available/", h.availableProducts)
	e.GET("/products/top/:ranking/", h.topProducts)
	e.GET("/products/:id/", h.productDetail)
	e.POST("/products/", h.createProduct, authed...)
	e.POST("/products/:id/price/", h.repriceProduct, authed...)
	e.POST("/products/:id/stock/", h.restockProduct, authed...)
	e.POST("/products/:id/reviews/", h.addReview, authed...)

	e.GET("/cart/", h.cartDetail, authed...)
	e.POST("/cart/add/:product_id/", h.addToCart, authed...)
	e.POST("/cart/update/:product_id/", h.updateCart, authed...)
	e.POST("/cart/remove/:item_id/", h.removeFromCart, authed...)

	e.GET("/orders/", h.listOrders, authed...)
	e.GET("/orders/checkout/", h.checkoutPreview, authed...)
	e.POST("/orders/checkout/", h.placeOrder, authed...)
	e.GET("/orders/confirm/:order_id/", h.confirmOrder, authed...)
	e.GET("/orders/:pk/factura/", h.downloadInvoice, authed...)

	return e, nil
}

func (h *handler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.service,
		"time":    time.Now().Format(time.RFC3339),
	})
}
