package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
)

type registerForm struct {
	Username  string `form:"username"`
	Email     string `form:"email"`
	Password1 string `form:"password1"`
	Password2 string `form:"password2"`
}

type loginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

func (h *handler) register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	user, err := h.Accounts.Register(c.Request().Context(), domain.Registration{
		Username:  form.Username,
		Email:     form.Email,
		Password1: form.Password1,
		Password2: form.Password2,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *handler) login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	token, err := h.Accounts.Login(c.Request().Context(), form.Username, form.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tokenResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
	})
}

func (h *handler) logout(c echo.Context) error {
	claims := currentClaims(c)
	if claims == nil {
		return domain.ErrUnauthenticated
	}

	if err := h.Accounts.Logout(c.Request().Context(), claims.ID); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) profile(c echo.Context) error {
	user, profile, err := h.Accounts.Profile(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, profileResponse{
		userResponse: toUserResponse(user),
		Phone:        profile.Phone,
		City:         profile.City,
		Address:      profile.Address,
	})
}
