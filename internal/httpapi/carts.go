package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
)

func (h *handler) cartDetail(c echo.Context) error {
	summary, err := h.Carts.Detail(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCartResponse(summary))
}

func (h *handler) addToCart(c echo.Context) error {
	productID, err := uuidParam(c, "product_id")
	if err != nil {
		return err
	}

	verr := domain.NewValidationError()
	quantity := parseInt(verr, "cantidad", c.FormValue("cantidad"), 1)
	if err := verr.OrNil(); err != nil {
		return err
	}

	item, err := h.Carts.AddItem(c.Request().Context(), currentUser(c), productID, quantity)

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return redirectWithFlash(c, productURL(productID), flashError, stockMessage(stockErr))
	}
	if err != nil {
		return err
	}

	return redirectWithFlash(c, cartURL, flashSuccess, item.ProductName+" agregado al carrito")
}

// updateCart sets the line quantity; zero or less removes the line.
func (h *handler) updateCart(c echo.Context) error {
	productID, err := uuidParam(c, "product_id")
	if err != nil {
		return err
	}

	verr := domain.NewValidationError()
	quantity := parseInt(verr, "cantidad", c.FormValue("cantidad"), 1)
	if err := verr.OrNil(); err != nil {
		return err
	}

	err = h.Carts.UpdateItem(c.Request().Context(), currentUser(c), productID, quantity)

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return redirectWithFlash(c, cartURL, flashError, stockMessage(stockErr))
	}
	if err != nil {
		return err
	}

	if quantity <= 0 {
		return redirectWithFlash(c, cartURL, flashSuccess, "Producto eliminado del carrito")
	}
	return redirectWithFlash(c, cartURL, flashSuccess, "Cantidad actualizada")
}

func (h *handler) removeFromCart(c echo.Context) error {
	itemID, err := uuidParam(c, "item_id")
	if err != nil {
		return err
	}

	if err := h.Carts.RemoveItem(c.Request().Context(), currentUser(c), itemID); err != nil {
		return err
	}

	return redirectWithFlash(c, cartURL, flashSuccess, "Producto eliminado del carrito")
}
