package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type Profile struct {
	UserID  uuid.UUID
	Phone   string
	City    string
	Address string
}

// Registration is the sign-up form.
type Registration struct {
	Username  string
	Email     string
	Password1 string
	Password2 string
}

func (r Registration) Validate() error {
	verr := NewValidationError()

	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		verr.Add("username", msgRequired)
	case utf8.RuneCountInString(username) > 150:
		verr.Add("username", maxLenMessage(150))
	case strings.ContainsAny(username, " \t\n/"):
		verr.Add("username", "Introduzca un nombre de usuario válido.")
	}

	if strings.TrimSpace(r.Email) == "" {
		verr.Add("email", msgRequired)
	} else if _, err := mail.ParseAddress(r.Email); err != nil {
		verr.Add("email", "Introduzca una dirección de correo electrónico válida.")
	}

	switch {
	case r.Password1 == "":
		verr.Add("password1", msgRequired)
	case utf8.RuneCountInString(r.Password1) < MinPasswordLength:
		verr.Add("password1", "La contraseña es demasiado corta. Debe contener al menos 8 caracteres.")
	case len(r.Password1) > MaxPasswordBytes:
		verr.Add("password1", "La contraseña es demasiado larga. Debe contener como máximo 72 bytes.")
	}

	if r.Password2 == "" {
		verr.Add("password2", msgRequired)
	} else if r.Password1 != r.Password2 {
		verr.Add("password2", "Los dos campos de contraseña no coinciden.")
	}

	return verr.OrNil()
}
