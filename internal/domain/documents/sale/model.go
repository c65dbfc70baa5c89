// Package sale provides the sale document: stock leaving to a client.
// A sale is rejected as a whole when any product would go below zero.
package sale

import (
	"context"
	"strings"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
)

// Sale is the document header.
type Sale struct {
	entity.Document

	ClientName    string `db:"client_name" json:"clientName"`
	ClientAddress string `db:"client_address" json:"clientAddress"`

	// ItemsCount is filled by list queries.
	ItemsCount int64 `db:"items_count" json:"itemsCount,omitempty"`

	Items []documents.Item `db:"-" json:"items,omitempty"`
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	s.ClientName = strings.TrimSpace(s.ClientName)
	s.ClientAddress = strings.TrimSpace(s.ClientAddress)

	if s.ClientName == "" {
		return apperror.NewValidation("client name is required").
			WithDetail("field", "clientName")
	}
	if s.Date.IsZero() {
		return apperror.NewValidation("sale date is required").
			WithDetail("field", "saleDate")
	}
	s.Date = types.DateOf(s.Date)
	return nil
}

// ListFilter narrows the sales journal.
type ListFilter struct {
	Period types.DateRange
	Client string
}

// Repository defines persistence for sales.
type Repository interface {
	documents.Store[*Sale]

	// GetByID returns the header with its items.
	GetByID(ctx context.Context, id int64) (*Sale, error)

	// List returns headers with their line counts, newest date first.
	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}
