package receipt

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
)

// Service provides business operations for receipt documents.
type Service struct {
	repo Repository
	docs *documents.Transaction[*Receipt]
}

// NewService creates a new receipt service. prefix seeds generated numbers.
func NewService(repo Repository, suppliers SupplierChecker, deps documents.Deps, prefix string) *Service {
	docs := documents.NewTransaction[*Receipt](documents.KindReceipt, repo, deps, numerator.DefaultConfig(prefix))

	docs.Hooks().OnBeforeCreate(func(ctx context.Context, r *Receipt) error {
		ok, err := suppliers.Exists(ctx, *r.SupplierID)
		if err != nil {
			return err
		}
		if !ok {
			return apperror.NewValidation("supplier not found").
				WithDetail("field", "supplierId").
				WithDetail("supplierId", *r.SupplierID)
		}
		return nil
	})

	return &Service{repo: repo, docs: docs}
}

// CreateInput is the request to register a receipt.
type CreateInput struct {
	DocumentNumber string
	SupplierID     int64
	ReceiptDate    time.Time
	Lines          []documents.Line
}

// Create stores the receipt and credits stock for every line.
func (s *Service) Create(ctx context.Context, in CreateInput) (*documents.Result, error) {
	r := &Receipt{SupplierID: &in.SupplierID}
	r.Number = in.DocumentNumber
	r.Date = types.DateOrToday(in.ReceiptDate)

	return s.docs.Execute(ctx, r, in.Lines)
}

// GetByID retrieves a receipt with its items.
func (s *Service) GetByID(ctx context.Context, id int64) (*Receipt, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("receipt", id)
		}
		return nil, apperror.WrapStorage("get receipt", err)
	}
	return r, nil
}

// List returns the receipt journal.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Receipt, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.WrapStorage("list receipts", err)
	}
	return items, nil
}
