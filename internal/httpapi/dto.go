package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/money"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type productResponse struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
	Currency     string          `json:"currency"`
	Stock        int             `json:"stock"`
	DetailURL    string          `json:"detail_url,omitempty"`
}

type productListResponse struct {
	Count   int               `json:"count"`
	Results []productResponse `json:"results"`
}

type scoredProductResponse struct {
	productResponse
	Score decimal.Decimal `json:"score"`
}

type reviewResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comentario"`
	CreatedAt time.Time `json:"created_at"`
}

type productDetailResponse struct {
	productResponse
	Reviews []reviewResponse `json:"reviews"`
}

type cartItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	ProductName      string          `json:"product_name"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int             `json:"cantidad"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	SubtotalDisplay  string          `json:"subtotal_display"`
	AvailableInStock int             `json:"stock"`
}

type cartResponse struct {
	Items             []cartItemResponse `json:"items"`
	Total             decimal.Decimal    `json:"total"`
	TotalDisplay      string             `json:"total_display"`
	Shipping          decimal.Decimal    `json:"shipping"`
	TotalWithShipping decimal.Decimal    `json:"total_with_shipping"`
	Currency          string             `json:"currency"`
}

type orderItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"cantidad"`
	Price       decimal.Decimal `json:"precio"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderResponse struct {
	ID           uuid.UUID           `json:"id"`
	Status       string              `json:"estado"`
	Total        decimal.Decimal     `json:"total"`
	TotalDisplay string              `json:"total_display"`
	Currency     string              `json:"currency"`
	CreatedAt    time.Time           `json:"fecha"`
	Items        []orderItemResponse `json:"items"`
}

type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type profileResponse struct {
	userResponse
	Phone   string `json:"telefono"`
	City    string `json:"ciudad"`
	Address string `json:"direccion"`
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price.Amount,
		PriceDisplay: money.FormatMoney(p.Price),
		Currency:     p.Price.Currency.String(),
		Stock:        p.Stock,
	}
}

// toProductListResponse links every product to its absolute detail URL.
func toProductListResponse(c echo.Context, products []domain.Product) productListResponse {
	base := c.Scheme() + "://" + c.Request().Host

	results := lo.Map(products, func(p domain.Product, _ int) productResponse {
		resp := toProductResponse(p)
		resp.DetailURL = base + productURL(p.ID)
		return resp
	})

	return productListResponse{
		Count:   len(results),
		Results: results,
	}
}

func toScoredProductsResponse(products []domain.ScoredProduct) []scoredProductResponse {
	return lo.Map(products, func(p domain.ScoredProduct, _ int) scoredProductResponse {
		return scoredProductResponse{
			productResponse: toProductResponse(p.Product),
			Score:           p.Score,
		}
	})
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

func toCartResponse(summary domain.CartSummary) cartResponse {
	items := lo.Map(summary.Items, func(item domain.CartItem, _ int) cartItemResponse {
		subtotal := item.Subtotal()
		return cartItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			Price:            item.Price.Amount,
			Quantity:         item.Quantity,
			Subtotal:         subtotal.Amount,
			SubtotalDisplay:  money.FormatMoney(subtotal),
			AvailableInStock: item.Stock,
		}
	})

	return cartResponse{
		Items:             items,
		Total:             summary.Subtotal.Amount,
		TotalDisplay:      money.FormatMoney(summary.Subtotal),
		Shipping:          summary.Shipping.Amount,
		TotalWithShipping: summary.Total.Amount,
		Currency:          summary.Total.Currency.String(),
	}
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:           o.ID,
		Status:       string(o.Status),
		Total:        o.Total.Amount,
		TotalDisplay: money.FormatMoney(o.Total),
		Currency:     o.Total.Currency.String(),
		CreatedAt:    o.CreatedAt,
		Items: lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemResponse {
			return orderItemResponse{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    item.Quantity,
				Price:       item.Price.Amount,
				Subtotal:    item.Subtotal().Amount,
			}
		}),
	}
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

func productURL(id uuid.UUID) string {
	return "/products/" + id.String() + "/"
}

func confirmURL(id uuid.UUID) string {
	return "/orders/confirm/" + id.String() + "/"
}

const cartURL = "/cart/"
