package domain_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

var copCurrency = currency.MustParseISO("COP")

func TestMoneyAdd(t *testing.T) {
	tests := []struct {
		name      string
		a, b      domain.Money
		want      domain.Money
		wantError error
	}{
		{
			name: "same currency: ok",
			a:    cop("0.10"),
			b:    cop("0.20"),
			want: cop("0.30"),
		},
		{
			name:      "different currency: mismatch",
			a:         cop("1.00"),
			b:         domain.Money{Amount: decimal.RequireFromString("1.00"), Currency: currency.USD},
			wantError: domain.ErrCurrencyMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestMoneyMulIsExact(t *testing.T) {
	total := domain.ZeroMoney(copCurrency)

	// 0.1 added ten times drifts in binary floating point
	for range 10 {
		var err error
		total, err = total.Add(cop("0.10"))
		require.NoError(t, err)
	}

	assert.True(t, cop("1.00").Equal(total))
	assert.True(t, cop("1.00").Equal(cop("0.10").Mul(10)))
	assert.Equal(t, "75.00 COP", cop("25.00").Mul(3).String())
}

func TestSum(t *testing.T) {
	got, err := domain.Sum(copCurrency, cop("25.00"), cop("0.99"), cop("1000.01"))
	require.NoError(t, err)
	assert.True(t, cop("1026.00").Equal(got))

	empty, err := domain.Sum(copCurrency)
	require.NoError(t, err)
	assert.True(t, empty.Amount.IsZero())
	assert.Equal(t, copCurrency, empty.Currency)
}

func cop(amount string) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: copCurrency}
}
