package httpapi

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	flashCookie = "flash"
	flashHeader = "X-Flash"

	flashSuccess = "success"
	flashWarning = "warning"
	flashError   = "error"
)

type errorResponse struct {
	Error  string            `json:"error,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := mapError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request failed")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		log.Error().Err(err).Msg("write error response")
	}
}

func mapError(err error) (int, errorResponse) {
	var (
		verr    *domain.ValidationError
		stock   *domain.InsufficientStockError
		httpErr *echo.HTTPError
	)

	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, errorResponse{Errors: verr.Fields}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		return http.StatusNotFound, errorResponse{Error: "not found"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "authentication required"}
	case errors.Is(err, domain.ErrAlreadyReviewed), errors.Is(err, domain.ErrCheckoutInProgress):
		return http.StatusConflict, errorResponse{Error: err.Error()}
	case errors.As(err, &stock):
		return http.StatusConflict, errorResponse{Error: stockMessage(stock)}
	case errors.As(err, &httpErr):
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}
		return httpErr.Code, errorResponse{Error: msg}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}

func stockMessage(err *domain.InsufficientStockError) string {
	return "No hay suficiente stock de " + err.ProductName
}

// redirectWithFlash answers 303 to location, carrying the message in the
// flash cookie and the X-Flash header as "level:message", query-escaped.
func redirectWithFlash(c echo.Context, location, level, message string) error {
	setFlash(c, level, message)
	return c.Redirect(http.StatusSeeOther, location)
}

func setFlash(c echo.Context, level, message string) {
	value := url.QueryEscape(level + ":" + message)

	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	c.Response().Header().Set(flashHeader, value)
}
