package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyReviewed    = errors.New("product already reviewed by user")
	ErrForbidden          = errors.New("forbidden")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// InsufficientStockError reports a cart line asking for more units than the product holds.
type InsufficientStockError struct {
	ProductID   uuid.UUID
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s[%s]: requested %d, available %d",
		e.ProductName, e.ProductID, e.Requested, e.Available)
}

// ValidationError carries per-field messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError is returned by stores when a unique field is already taken.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}
