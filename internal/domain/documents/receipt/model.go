// Package receipt provides the goods receipt document: stock arriving from a
// supplier. Committing a receipt credits stock for each line.
package receipt

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
)

// Receipt is the document header.
type Receipt struct {
	entity.Document

	// SupplierID is nullable in storage: the supplier may be deleted later.
	SupplierID *int64 `db:"supplier_id" json:"supplierId"`

	// SupplierName is filled on reads by joining suppliers.
	SupplierName *string `db:"supplier_name" json:"supplierName,omitempty"`

	Items []documents.Item `db:"-" json:"items,omitempty"`
}

// Validate implements entity.Validatable.
func (r *Receipt) Validate(ctx context.Context) error {
	if r.SupplierID == nil || *r.SupplierID <= 0 {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}
	if r.Date.IsZero() {
		return apperror.NewValidation("receipt date is required").
			WithDetail("field", "receiptDate")
	}
	r.Date = types.DateOf(r.Date)
	return nil
}

// ListFilter narrows the receipt journal.
type ListFilter struct {
	Period     types.DateRange
	SupplierID *int64
}

// Repository defines persistence for receipts.
type Repository interface {
	documents.Store[*Receipt]

	// GetByID returns the header with its items.
	GetByID(ctx context.Context, id int64) (*Receipt, error)

	// List returns headers joined to the supplier name, newest date first.
	List(ctx context.Context, filter ListFilter) ([]*Receipt, error)
}

// SupplierChecker confirms a referenced supplier exists.
type SupplierChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}
