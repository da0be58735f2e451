package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type productForm struct {
	Name        string `form:"nombre"`
	Description string `form:"descripcion"`
	Price       string `form:"precio"`
	Stock       string `form:"stock"`
	Category    string `form:"categoria"`
}

type reviewForm struct {
	Rating  string `form:"rating"`
	Comment string `form:"comentario"`
}

func (h *handler) listProducts(c echo.Context) error {
	products, err := h.Catalog.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProductListResponse(c, products))
}

// availableProducts is the JSON feed of products with stock, ordered by name.
func (h *handler) availableProducts(c echo.Context) error {
	return h.listProducts(c)
}

func (h *handler) topProducts(c echo.Context) error {
	ranking, err := domain.ToProductRanking(c.Param("ranking"))
	if err != nil {
		return err
	}

	products, err := h.Catalog.Top(c.Request().Context(), ranking)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toScoredProductsResponse(products))
}

func (h *handler) productDetail(c echo.Context) error {
	productID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	product, err := h.Catalog.Get(ctx, productID)
	if err != nil {
		return err
	}

	reviews, err := h.Catalog.Reviews(ctx, productID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, productDetailResponse{
		productResponse: toProductResponse(product),
		Reviews:         lo.Map(reviews, func(r domain.Review, _ int) reviewResponse { return toReviewResponse(r) }),
	})
}

func (h *handler) createProduct(c echo.Context) error {
	var form productForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	verr := domain.NewValidationError()
	price := parseDecimal(verr, "precio", form.Price)
	stock := parseInt(verr, "stock", form.Stock, 0)
	if err := verr.OrNil(); err != nil {
		return err
	}

	product, err := h.Catalog.Create(c.Request().Context(), currentUser(c), domain.NewProduct{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Stock:       stock,
		Category:    form.Category,
	})
	if err != nil {
		return err
	}

	return redirectWithFlash(c, productURL(product.ID), flashSuccess, "¡Producto creado exitosamente!")
}

func (h *handler) repriceProduct(c echo.Context) error {
	productID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	verr := domain.NewValidationError()
	price := parseDecimal(verr, "precio", c.FormValue("precio"))
	if err := verr.OrNil(); err != nil {
		return err
	}

	if err := h.Catalog.Reprice(c.Request().Context(), currentUser(c), productID, price); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) restockProduct(c echo.Context) error {
	productID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	verr := domain.NewValidationError()
	stock := parseInt(verr, "stock", c.FormValue("stock"), 0)
	if err := verr.OrNil(); err != nil {
		return err
	}

	if err := h.Catalog.Restock(c.Request().Context(), currentUser(c), productID, stock); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *handler) addReview(c echo.Context) error {
	productID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var form reviewForm
	if err := c.Bind(&form); err != nil {
		return err
	}

	verr := domain.NewValidationError()
	rating := parseInt(verr, "rating", form.Rating, 0)
	if err := verr.OrNil(); err != nil {
		return err
	}

	_, err = h.Catalog.AddReview(c.Request().Context(), currentUser(c), productID, rating, form.Comment)
	if errors.Is(err, domain.ErrAlreadyReviewed) {
		return redirectWithFlash(c, productURL(productID), flashError, "Ya has reseñado este producto.")
	}
	if err != nil {
		return err
	}

	return redirectWithFlash(c, productURL(productID), flashSuccess, "¡Reseña agregada exitosamente!")
}

// uuidParam treats a malformed id like an unknown one.
func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.ErrNotFound
	}
	return id, nil
}

func parseInt(verr *domain.ValidationError, field, value string, def int) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		verr.Add(field, "Introduzca un número entero.")
		return 0
	}
	return n
}

func parseDecimal(verr *domain.ValidationError, field, value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		verr.Add(field, "Este campo es obligatorio.")
		return decimal.Zero
	}

	d, err := decimal.NewFromString(value)
	if err != nil {
		verr.Add(field, "Introduzca un número.")
		return decimal.Zero
	}
	return d
}
