package domain_test

import (
	"strings"
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrationValidate(t *testing.T) {
	valid := domain.Registration{
		Username:  "ana",
		Email:     "ana@example.com",
		Password1: "s3cret-pass",
		Password2: "s3cret-pass",
	}

	tests := []struct {
		name      string
		mutate    func(r *domain.Registration)
		wantField string
	}{
		{name: "valid: ok", mutate: func(*domain.Registration) {}},
		{name: "passwords differ", mutate: func(r *domain.Registration) { r.Password2 = "other-pass" }, wantField: "password2"},
		{name: "short password", mutate: func(r *domain.Registration) { r.Password1, r.Password2 = "short", "short" }, wantField: "password1"},
		{name: "password over bcrypt limit", mutate: func(r *domain.Registration) {
			r.Password1 = strings.Repeat("a", domain.MaxPasswordBytes+1)
			r.Password2 = r.Password1
		}, wantField: "password1"},
		{name: "password at bcrypt limit: ok", mutate: func(r *domain.Registration) {
			r.Password1 = strings.Repeat("a", domain.MaxPasswordBytes)
			r.Password2 = r.Password1
		}},
		{name: "missing email", mutate: func(r *domain.Registration) { r.Email = "" }, wantField: "email"},
		{name: "username with space", mutate: func(r *domain.Registration) { r.Username = "ana maria" }, wantField: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)

			err := r.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestNewProductValidate(t *testing.T) {
	tests := []struct {
		name       string
		product    domain.NewProduct
		wantFields []string
	}{
		{
			name:    "valid: ok",
			product: domain.NewProduct{Name: "Café", Price: decimal.RequireFromString("12.50"), Stock: 3},
		},
		{
			name:       "blank name, zero price, negative stock",
			product:    domain.NewProduct{Name: " ", Price: decimal.Zero, Stock: -1},
			wantFields: []string{"nombre", "precio", "stock"},
		},
		{
			name:       "three decimals",
			product:    domain.NewProduct{Name: "Té", Price: decimal.RequireFromString("1.005")},
			wantFields: []string{"precio"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			for _, field := range tt.wantFields {
				assert.Contains(t, verr.Fields, field)
			}
		})
	}
}

func TestReviewValidate(t *testing.T) {
	assert.NoError(t, domain.Review{Rating: 5}.Validate())
	assert.Error(t, domain.Review{Rating: 0}.Validate())
	assert.Error(t, domain.Review{Rating: 6}.Validate())
}
