// Package reservations tracks goods promised to a client. A reservation is
// advisory: it checks stock when created but never changes it.
package reservations

import (
	"context"
	"strings"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
)

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// DefaultTerm is how long a reservation holds when no expiry date is given.
const DefaultTerm = 7 * 24 * time.Hour

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a reservation in s may move to next.
// Only active reservations move, and only once.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusActive && (next == StatusCompleted || next == StatusCancelled)
}

// Reservation holds a quantity of one product for a client.
type Reservation struct {
	entity.BaseEntity

	ClientName string `db:"client_name" json:"clientName"`
	ProductID  int64  `db:"product_id" json:"productId"`

	// ProductName is joined on reads; nil once the product is deleted.
	ProductName *string `db:"product_name" json:"productName,omitempty"`

	Quantity        int64     `db:"quantity" json:"quantity"`
	ReservationDate time.Time `db:"reservation_date" json:"reservationDate"`
	ExpiryDate      time.Time `db:"expiry_date" json:"expiryDate"`
	Status          Status    `db:"status" json:"status"`
}

// Validate implements entity.Validatable.
func (r *Reservation) Validate(ctx context.Context) error {
	r.ClientName = strings.TrimSpace(r.ClientName)

	if r.ClientName == "" {
		return apperror.NewValidation("client name is required").
			WithDetail("field", "clientName")
	}
	if r.ProductID <= 0 {
		return apperror.NewValidation("product is required").
			WithDetail("field", "productId")
	}
	if r.Quantity <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("field", "quantity")
	}
	if r.ExpiryDate.Before(r.ReservationDate) {
		return apperror.NewValidation("expiry date is before reservation date").
			WithDetail("field", "expiryDate")
	}
	if !r.Status.Valid() {
		return apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("status", string(r.Status))
	}
	return nil
}

// ListFilter narrows the reservation list. Zero values match everything.
type ListFilter struct {
	Status    Status
	ProductID int64
}
