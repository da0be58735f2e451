package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/nikolayk812/storefront/internal/account"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	userIDKey = "user_id"
	claimsKey = "claims"
)

// requireSession runs after the JWT middleware and checks that the token's
// session is still open.
func (h *handler) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return domain.ErrUnauthenticated
		}
		claims, ok := token.Claims.(*account.Claims)
		if !ok {
			return domain.ErrUnauthenticated
		}

		userID, err := h.Accounts.Authenticate(c.Request().Context(), claims)
		if err != nil {
			return err
		}

		c.Set(userIDKey, userID)
		c.Set(claimsKey, claims)

		return next(c)
	}
}

func currentUser(c echo.Context) uuid.UUID {
	userID, _ := c.Get(userIDKey).(uuid.UUID)
	return userID
}

func currentClaims(c echo.Context) *account.Claims {
	claims, _ := c.Get(claimsKey).(*account.Claims)
	return claims
}

func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Debug().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}

// observeRequests resolves errors through the error handler first so the
// recorded status is the one the client sees.
func observeRequests(m *metrics.ServerMetrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			status := strconv.Itoa(c.Response().Status)

			m.Requests.WithLabelValues(route, status).Inc()
			m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))

			return nil
		}
	}
}

func rateLimiter(limit float64, burst int) echo.MiddlewareFunc {
	if burst <= 0 {
		burst = int(limit) + 1
	}

	deny := func(c echo.Context) error {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return deny(c)
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return deny(c)
		},
	})
}
