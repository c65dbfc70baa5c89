package sale

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
)

// Service provides business operations for sale documents.
type Service struct {
	repo Repository
	docs *documents.Transaction[*Sale]
}

// NewService creates a new sale service. prefix seeds generated numbers.
func NewService(repo Repository, deps documents.Deps, prefix string) *Service {
	return &Service{
		repo: repo,
		docs: documents.NewTransaction[*Sale](documents.KindSale, repo, deps, numerator.DefaultConfig(prefix)),
	}
}

// CreateInput is the request to register a sale.
type CreateInput struct {
	DocumentNumber string
	ClientName     string
	ClientAddress  string
	SaleDate       time.Time
	Lines          []documents.Line
}

// Create stores the sale and debits stock for every line.
func (s *Service) Create(ctx context.Context, in CreateInput) (*documents.Result, error) {
	doc := &Sale{
		ClientName:    in.ClientName,
		ClientAddress: in.ClientAddress,
	}
	doc.Number = in.DocumentNumber
	doc.Date = types.DateOrToday(in.SaleDate)

	return s.docs.Execute(ctx, doc, in.Lines)
}

// GetByID retrieves a sale with its items.
func (s *Service) GetByID(ctx context.Context, id int64) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("sale", id)
		}
		return nil, apperror.WrapStorage("get sale", err)
	}
	return doc, nil
}

// List returns the sales journal.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.WrapStorage("list sales", err)
	}
	return items, nil
}
