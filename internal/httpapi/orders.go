package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const idempotencyHeader = "Idempotency-Key"

type checkoutForm struct {
	Email      string `form:"email"`
	FullName   string `form:"nombre"`
	Phone      string `form:"telefono"`
	City       string `form:"ciudad"`
	Address    string `form:"direccion"`
	Method     string `form:"metodo_pago"`
	CardNumber string `form:"numero_tarjeta"`
	Expiration string `form:"expiracion"`
	CVV        string `form:"cvv"`
}

func (f checkoutForm) toDomain() domain.PaymentDetails {
	return domain.PaymentDetails{
		Email:      f.Email,
		FullName:   f.FullName,
		Phone:      f.Phone,
		City:       f.City,
		Address:    f.Address,
		Method:     toPaymentMethod(f.Method),
		CardNumber: f.CardNumber,
		Expiration: f.Expiration,
		CVV:        f.CVV,
	}
}

// toPaymentMethod maps the form choices onto domain methods.
func toPaymentMethod(choice string) domain.PaymentMethod {
	switch strings.TrimSpace(choice) {
	case "tarjeta":
		return domain.PaymentMethodCard
	case "paypal":
		return domain.PaymentMethodPayPal
	case "efectivo":
		return domain.PaymentMethodCash
	}
	return domain.PaymentMethod(choice)
}

func (h *handler) listOrders(c echo.Context) error {
	orders, err := h.Orders.SearchOrders(c.Request().Context(), domain.OrderFilter{
		OwnerIDs: []uuid.UUID{currentUser(c)},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	}))
}

func (h *handler) checkoutPreview(c echo.Context) error {
	summary, err := h.Checkout.Preview(c.Request().Context(), currentUser(c))
	if errors.Is(err, domain.ErrEmptyCart) {
		return redirectWithFlash(c, cartURL, flashWarning, "Tu carrito está vacío")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCartResponse(summary))
}

// placeOrder runs the checkout. With an Idempotency-Key header a replayed
// request is redirected to the order the first one created.
func (h *handler) placeOrder(c echo.Context) error {
	var form checkoutForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	ctx := c.Request().Context()
	userID := currentUser(c)

	key := idempotencyKey(userID, c.Request().Header.Get(idempotencyHeader))
	if key != "" && h.Idempotency != nil {
		claimed, err := h.Idempotency.Claim(ctx, key)
		if err != nil {
			return fmt.Errorf("h.Idempotency.Claim: %w", err)
		}
		if !claimed {
			orderID, ok, err := h.Idempotency.Lookup(ctx, key)
			if err != nil {
				return fmt.Errorf("h.Idempotency.Lookup: %w", err)
			}
			if !ok {
				return domain.ErrCheckoutInProgress
			}
			return c.Redirect(http.StatusSeeOther, confirmURL(orderID))
		}
	} else {
		key = ""
	}

	orderID, err := h.Checkout.Checkout(ctx, userID, form.toDomain())
	if err != nil {
		h.releaseKey(ctx, key)

		var stockErr *domain.InsufficientStockError
		switch {
		case errors.Is(err, domain.ErrEmptyCart):
			return redirectWithFlash(c, cartURL, flashWarning, "Tu carrito está vacío")
		case errors.As(err, &stockErr):
			return redirectWithFlash(c, cartURL, flashError, stockMessage(stockErr))
		}
		return err
	}

	if key != "" {
		h.bindKey(ctx, key, orderID)
	}

	return redirectWithFlash(c, confirmURL(orderID), flashSuccess,
		fmt.Sprintf("¡Orden #%s creada exitosamente!", orderID))
}

// bindKey retries once, then releases the key: a claimed key left unbound
// would answer every replay with a conflict until it expires.
func (h *handler) bindKey(ctx context.Context, key string, orderID uuid.UUID) {
	err := h.Idempotency.Bind(ctx, key, orderID)
	if err == nil {
		return
	}
	if err = h.Idempotency.Bind(ctx, key, orderID); err == nil {
		return
	}

	log.Warn().Err(err).
		Str("order_id", orderID.String()).
		Msg("bind idempotency key")

	h.releaseKey(ctx, key)
}

func (h *handler) releaseKey(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := h.Idempotency.Release(ctx, key); err != nil {
		log.Warn().Err(err).Msg("release idempotency key")
	}
}

// idempotencyKey scopes the client key to the user so two users cannot collide.
func idempotencyKey(userID uuid.UUID, header string) string {
	header = strings.TrimSpace(header)
	if header == "" {
		return ""
	}
	return userID.String() + ":" + header
}

func (h *handler) confirmOrder(c echo.Context) error {
	order, err := h.ownOrder(c, "order_id")
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

func (h *handler) downloadInvoice(c echo.Context) error {
	orderID, err := uuidParam(c, "pk")
	if err != nil {
		return err
	}

	doc, err := h.Invoices.Render(c.Request().Context(), currentUser(c), orderID)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Body)
}

// ownOrder loads the order named by param; orders of other users look missing.
func (h *handler) ownOrder(c echo.Context, param string) (domain.Order, error) {
	orderID, err := uuidParam(c, param)
	if err != nil {
		return domain.Order{}, err
	}

	order, err := h.Orders.GetOrder(c.Request().Context(), orderID)
	if err != nil {
		return domain.Order{}, err
	}
	if order.OwnerID != currentUser(c) {
		return domain.Order{}, domain.ErrNotFound
	}

	return order, nil
}
