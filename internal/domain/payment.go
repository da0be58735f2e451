package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodCash   PaymentMethod = "cash"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCard, PaymentMethodPayPal, PaymentMethodCash:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

type Payment struct {
	OrderID   uuid.UUID
	Method    PaymentMethod
	Amount    Money
	Status    PaymentStatus
	CreatedAt time.Time
}

const (
	msgRequired     = "Este campo es obligatorio."
	msgCardRequired = "Este campo es obligatorio para pagos con tarjeta."
)

// PaymentDetails is the checkout form. Card data is validated and then dropped.
type PaymentDetails struct {
	Email      string
	FullName   string
	Phone      string
	City       string
	Address    string
	Method     PaymentMethod
	CardNumber string
	Expiration string
	CVV        string
}

// Validate reports errors keyed by checkout form field name.
func (d PaymentDetails) Validate() error {
	verr := NewValidationError()

	if strings.TrimSpace(d.Email) == "" {
		verr.Add("email", msgRequired)
	} else if _, err := mail.ParseAddress(d.Email); err != nil {
		verr.Add("email", "Introduzca una dirección de correo electrónico válida.")
	}

	requireText(verr, "nombre", d.FullName, 150)
	requireText(verr, "telefono", d.Phone, 30)
	requireText(verr, "ciudad", d.City, 80)
	requireText(verr, "direccion", d.Address, 0)

	if !d.Method.Valid() {
		verr.Add("metodo_pago", "Escoja una opción válida.")
	}

	cardFields := []struct {
		name   string
		value  string
		maxLen int
	}{
		{"numero_tarjeta", d.CardNumber, 32},
		{"expiracion", d.Expiration, 7},
		{"cvv", d.CVV, 4},
	}
	for _, f := range cardFields {
		value := strings.TrimSpace(f.value)
		if d.Method == PaymentMethodCard && value == "" {
			verr.Add(f.name, msgCardRequired)
			continue
		}
		if utf8.RuneCountInString(value) > f.maxLen {
			verr.Add(f.name, maxLenMessage(f.maxLen))
		}
	}

	return verr.OrNil()
}

func requireText(verr *ValidationError, field, value string, maxLen int) {
	value = strings.TrimSpace(value)
	if value == "" {
		verr.Add(field, msgRequired)
		return
	}
	if maxLen > 0 && utf8.RuneCountInString(value) > maxLen {
		verr.Add(field, maxLenMessage(maxLen))
	}
}

func maxLenMessage(n int) string {
	return fmt.Sprintf("Asegúrese de que este valor tenga a lo sumo %d caracteres.", n)
}
