package entity

import (
	"context"
	"time"
)

// Validatable is implemented by entities that support self-validation.
// Validation checks internal invariants (without database access).
type Validatable interface {
	// Validate checks entity invariants.
	// Returns nil if valid, AppError with details otherwise.
	Validate(ctx context.Context) error
}

// BaseEntity contains the fields every stored row carries.
type BaseEntity struct {
	// ID is the auto-incremented primary key, zero until inserted.
	ID int64 `db:"id" json:"id"`

	// CreatedAt is set by the database on insert.
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// GetID returns the entity ID.
func (b *BaseEntity) GetID() int64 {
	return b.ID
}

// SetID assigns the ID returned by INSERT ... RETURNING.
func (b *BaseEntity) SetID(id int64) {
	b.ID = id
}

// IsNew reports whether the entity has not been inserted yet.
func (b *BaseEntity) IsNew() bool {
	return b.ID == 0
}

// Assign stores the values generated by the database on insert.
func (b *BaseEntity) Assign(id int64, createdAt time.Time) {
	b.ID = id
	b.CreatedAt = createdAt
}

// Persistable is implemented by every stored entity.
type Persistable interface {
	Validatable
	GetID() int64
	Assign(id int64, createdAt time.Time)
}
