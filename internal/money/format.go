// Package money renders amounts the way Colombian shops print prices:
// "$ 12.345,67", with the fraction dropped when it is ",00".
package money

import (
	"strings"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

const symbol = "$ "

var falseyFlags = []string{"0", "false", "no", "off"}

// FormatCOP rounds half away from zero to two decimals before formatting.
func FormatCOP(amount decimal.Decimal, withSymbol bool) string {
	rounded := amount.Round(domain.MoneyScale)

	sign := ""
	if rounded.IsNegative() {
		sign = "-"
	}

	fixed := rounded.Abs().StringFixed(domain.MoneyScale)
	integerPart, fractionalPart, _ := strings.Cut(fixed, ".")

	formatted := groupThousands(integerPart)
	if fractionalPart != "00" {
		formatted += "," + fractionalPart
	}

	if withSymbol {
		return symbol + sign + formatted
	}
	return sign + formatted
}

// FormatCOPString formats a textual amount. Empty input gives an empty
// string; input that is not a number is returned unchanged.
func FormatCOPString(value string, withSymbol bool) string {
	if value == "" {
		return ""
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return value
	}

	return FormatCOP(amount, withSymbol)
}

func FormatMoney(m domain.Money) string {
	return FormatCOP(m.Amount, true)
}

// ShouldIncludeSymbol reads a user supplied flag; "0", "false", "no" and
// "off" in any case switch the symbol off.
func ShouldIncludeSymbol(flag string) bool {
	flag = strings.ToLower(strings.TrimSpace(flag))
	for _, falsey := range falseyFlags {
		if flag == falsey {
			return false
		}
	}
	return true
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
