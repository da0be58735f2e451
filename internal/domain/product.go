package domain

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Price       Money
	Stock       int
	Category    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProduct is the seller input for listing a product.
type NewProduct struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

func (p NewProduct) Validate() error {
	verr := NewValidationError()

	name := strings.TrimSpace(p.Name)
	switch {
	case name == "":
		verr.Add("nombre", "Este campo es obligatorio.")
	case len(name) > 200:
		verr.Add("nombre", "Máximo 200 caracteres.")
	}

	if err := ValidatePrice(p.Price); err != nil {
		verr.Add("precio", err.Error())
	}

	if err := ValidateStock(p.Stock); err != nil {
		verr.Add("stock", err.Error())
	}

	return verr.OrNil()
}

// ValidatePrice accepts positive amounts with at most two decimals that fit NUMERIC(10,2).
func ValidatePrice(price decimal.Decimal) error {
	if !price.IsPositive() {
		return errors.New("El precio debe ser mayor que cero.")
	}
	if !price.Equal(price.Round(MoneyScale)) {
		return errors.New("El precio admite como máximo 2 decimales.")
	}
	if price.GreaterThanOrEqual(decimal.New(1, 8)) {
		return errors.New("El precio es demasiado alto.")
	}
	return nil
}

// MaxStock is the largest stock a product row can hold (INTEGER column).
const MaxStock = math.MaxInt32

func ValidateStock(stock int) error {
	if stock < 0 {
		return errors.New("El stock no puede ser negativo.")
	}
	if stock > MaxStock {
		return errors.New("El stock es demasiado alto.")
	}
	return nil
}

// ProductRanking selects the ordering of a top products list.
type ProductRanking string

const (
	RankingSold     ProductRanking = "sold"
	RankingReviewed ProductRanking = "reviewed"
	RankingRated    ProductRanking = "rated"
)

func ToProductRanking(s string) (ProductRanking, error) {
	switch r := ProductRanking(s); r {
	case RankingSold, RankingReviewed, RankingRated:
		return r, nil
	}
	return "", ErrNotFound
}

// ScoredProduct is a product annotated with its ranking score: units sold,
// review count or average rating.
type ScoredProduct struct {
	Product
	Score decimal.Decimal
}
