package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// MoneyScale is the number of fractional digits persisted for every amount.
const MoneyScale = 2

var ErrCurrencyMismatch = errors.New("currency mismatch")

type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func ZeroMoney(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

func (m Money) Add(other Money) (Money, error) {
	if m.Currency != other.Currency {
		return Money{}, fmt.Errorf("%s + %s: %w", m.Currency, other.Currency, ErrCurrencyMismatch)
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

func (m Money) Mul(quantity int) Money {
	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}
}

// Round returns the amount rounded half away from zero to MoneyScale digits.
func (m Money) Round() Money {
	return Money{Amount: m.Amount.Round(MoneyScale), Currency: m.Currency}
}

func (m Money) IsPositive() bool {
	return m.Amount.IsPositive()
}

func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return m.Amount.StringFixed(MoneyScale) + " " + m.Currency.String()
}

// Sum adds all amounts, starting from zero in cur.
func Sum(cur currency.Unit, amounts ...Money) (Money, error) {
	total := ZeroMoney(cur)

	for _, amount := range amounts {
		var err error
		if total, err = total.Add(amount); err != nil {
			return Money{}, err
		}
	}

	return total, nil
}
