// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"stockbook/internal/core/entity"
)

// ListFilter contains common filtering options for catalog list operations.
// Datasets are small, so lists are never paginated.
type ListFilter struct {
	// Search is a case-insensitive substring matched against searchable columns
	Search string

	// IDs filters by specific IDs
	IDs []int64

	// OrderBy specifies sorting (e.g., "name", "-created_at")
	OrderBy string
}

// CatalogRepository defines CRUD operations for catalog entities.
type CatalogRepository[T entity.Persistable] interface {
	// Create inserts a new entity and assigns its generated ID
	Create(ctx context.Context, entity T) error

	// GetByID retrieves entity by ID
	GetByID(ctx context.Context, id int64) (T, error)

	// Update modifies the writable columns of an existing entity
	Update(ctx context.Context, entity T) error

	// Delete physically removes the row. Dependent rows are neither
	// blocked nor cascaded.
	Delete(ctx context.Context, id int64) error

	// List retrieves entities matching the filter
	List(ctx context.Context, filter ListFilter) ([]T, error)

	// Exists checks if entity with given ID exists
	Exists(ctx context.Context, id int64) (bool, error)
}

// --- Hooks ---

// HookEvent represents lifecycle event type.
type HookEvent string

const (
	BeforeCreate HookEvent = "before_create"
	AfterCreate  HookEvent = "after_create"
	BeforeUpdate HookEvent = "before_update"
	AfterUpdate  HookEvent = "after_update"
	BeforeDelete HookEvent = "before_delete"
	AfterDelete  HookEvent = "after_delete"
)

// Hook is a function that runs at specific lifecycle points.
// Before-hooks run inside the write transaction and can abort it.
type Hook[T any] func(ctx context.Context, entity T) error

// HookRegistry stores lifecycle hooks for an entity type.
type HookRegistry[T any] struct {
	hooks map[HookEvent][]Hook[T]
}

// NewHookRegistry creates an empty hook registry.
func NewHookRegistry[T any]() *HookRegistry[T] {
	return &HookRegistry[T]{
		hooks: make(map[HookEvent][]Hook[T]),
	}
}

// On registers a hook for the specified event.
func (r *HookRegistry[T]) On(event HookEvent, hook Hook[T]) {
	r.hooks[event] = append(r.hooks[event], hook)
}

// Run executes all hooks for the specified event, stopping at the first error.
func (r *HookRegistry[T]) Run(ctx context.Context, event HookEvent, entity T) error {
	for _, hook := range r.hooks[event] {
		if err := hook(ctx, entity); err != nil {
			return err
		}
	}
	return nil
}

// OnBeforeCreate registers a hook to run before create.
func (r *HookRegistry[T]) OnBeforeCreate(hook Hook[T]) {
	r.On(BeforeCreate, hook)
}

// OnAfterCreate registers a hook to run after create.
func (r *HookRegistry[T]) OnAfterCreate(hook Hook[T]) {
	r.On(AfterCreate, hook)
}

// OnBeforeUpdate registers a hook to run before update.
func (r *HookRegistry[T]) OnBeforeUpdate(hook Hook[T]) {
	r.On(BeforeUpdate, hook)
}

// OnBeforeDelete registers a hook to run before delete.
func (r *HookRegistry[T]) OnBeforeDelete(hook Hook[T]) {
	r.On(BeforeDelete, hook)
}
