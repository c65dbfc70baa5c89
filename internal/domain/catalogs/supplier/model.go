// Package supplier provides the supplier catalog referenced by receipts.
package supplier

import (
	"context"
	"net/mail"
	"strings"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
)

// Supplier is a goods supplier. Only the name is required.
type Supplier struct {
	entity.BaseEntity

	Name          string `db:"name" json:"name"`
	ContactPerson string `db:"contact_person" json:"contactPerson"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
	Address       string `db:"address" json:"address"`
}

// Validate implements entity.Validatable.
func (s *Supplier) Validate(ctx context.Context) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)

	if s.Name == "" {
		return apperror.NewValidation("supplier name is required").
			WithDetail("field", "name")
	}
	if s.Email != "" {
		if _, err := mail.ParseAddress(s.Email); err != nil {
			return apperror.NewValidation("invalid email").
				WithDetail("field", "email").
				WithCause(err)
		}
	}
	return nil
}
