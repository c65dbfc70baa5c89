package reservations

import (
	"context"
)

// Repository defines persistence for reservations.
type Repository interface {
	// Create inserts the reservation and assigns its ID.
	Create(ctx context.Context, r *Reservation) error

	// GetByID returns the reservation joined to its product name.
	GetByID(ctx context.Context, id int64) (*Reservation, error)

	// List returns reservations newest reservation date first.
	List(ctx context.Context, filter ListFilter) ([]*Reservation, error)

	// Transition sets status to `to` only if it is currently `from`.
	// It returns false when no row matched.
	Transition(ctx context.Context, id int64, from, to Status) (bool, error)
}
