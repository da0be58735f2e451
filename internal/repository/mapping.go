package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func toMoney(amount decimal.Decimal, code string) (domain.Money, error) {
	code = strings.TrimSpace(code)

	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

// notFoundIfNoRows translates pgx.ErrNoRows so callers can match domain.ErrNotFound.
func notFoundIfNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func pgErrorCode(err error) (code, constraint string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

func isUniqueViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	code, _ := pgErrorCode(err)
	return code == pgForeignKeyViolation
}

func nilSliceIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
