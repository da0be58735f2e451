package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

func (r Review) Validate() error {
	verr := NewValidationError()
	if r.Rating < MinRating || r.Rating > MaxRating {
		verr.Add("rating", "La calificación debe estar entre 1 y 5.")
	}
	return verr.OrNil()
}
