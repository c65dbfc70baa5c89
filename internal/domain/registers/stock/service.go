package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx"
)

// ErrOutsideTransaction is returned when Credit or Debit is called without
// an open transaction in ctx. Stock moves only as part of a document.
var ErrOutsideTransaction = errors.New("stock ledger: mutation outside a transaction")

// Request is the quantity a document asks of one product.
type Request struct {
	ProductID int64
	Quantity  int64
}

// Shortage describes one product a batch cannot be served from.
type Shortage struct {
	ProductID int64 `json:"productId"`
	Requested int64 `json:"requested"`
	Available int64 `json:"available"`
}

// Service applies credits and debits to current_stock.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new stock ledger.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Credit increases current_stock by qty (receipts).
func (s *Service) Credit(ctx context.Context, productID, qty int64) error {
	if !s.txManager.InTransaction(ctx) {
		return ErrOutsideTransaction
	}
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("productId", productID).
			WithDetail("quantity", qty)
	}

	if err := s.repo.Increase(ctx, productID, qty); err != nil {
		return fmt.Errorf("credit product %d: %w", productID, err)
	}
	return nil
}

// Debit decreases current_stock by qty (sales). The update is guarded, so a
// debit that would take stock below zero fails with INSUFFICIENT_STOCK even
// if the batch check was skipped.
func (s *Service) Debit(ctx context.Context, productID, qty int64) error {
	if !s.txManager.InTransaction(ctx) {
		return ErrOutsideTransaction
	}
	if qty <= 0 {
		return apperror.NewValidation("quantity must be positive").
			WithDetail("productId", productID).
			WithDetail("quantity", qty)
	}

	ok, err := s.repo.Decrease(ctx, productID, qty)
	if err != nil {
		return fmt.Errorf("debit product %d: %w", productID, err)
	}
	if ok {
		return nil
	}

	levels, err := s.repo.Levels(ctx, []int64{productID}, false)
	if err != nil {
		return fmt.Errorf("read stock of product %d: %w", productID, err)
	}
	available, found := levels[productID]
	if !found {
		return apperror.NewNotFound("product", productID)
	}
	return apperror.NewInsufficientStock(productID, qty, available)
}

// Level returns the current stock of one product.
func (s *Service) Level(ctx context.Context, productID int64) (int64, error) {
	levels, err := s.repo.Levels(ctx, []int64{productID}, false)
	if err != nil {
		return 0, fmt.Errorf("read stock of product %d: %w", productID, err)
	}
	level, ok := levels[productID]
	if !ok {
		return 0, apperror.NewNotFound("product", productID)
	}
	return level, nil
}

// Lock reads and row-locks the stock of every product in reqs. A reference
// to an unknown product is a validation error.
func (s *Service) Lock(ctx context.Context, reqs []Request) (map[int64]int64, error) {
	ids := productIDs(reqs)
	levels, err := s.repo.Levels(ctx, ids, true)
	if err != nil {
		return nil, fmt.Errorf("lock stock: %w", err)
	}
	for _, id := range ids {
		if _, ok := levels[id]; !ok {
			return nil, apperror.NewValidation("product not found").
				WithDetail("field", "productId").
				WithDetail("productId", id)
		}
	}
	return levels, nil
}

// CheckAvailability validates a whole batch against levels before any debit
// is applied. Quantities of lines sharing a product are summed first.
func CheckAvailability(levels map[int64]int64, reqs []Request) error {
	shortages := FindShortages(levels, reqs)
	if len(shortages) == 0 {
		return nil
	}

	first := shortages[0]
	return apperror.NewInsufficientStock(first.ProductID, first.Requested, first.Available).
		WithDetail("shortages", shortages)
}

// FindShortages returns the products whose summed request exceeds the level,
// ordered by product ID.
func FindShortages(levels map[int64]int64, reqs []Request) []Shortage {
	totals := Aggregate(reqs)

	var shortages []Shortage
	for _, id := range productIDs(reqs) {
		if totals[id] > levels[id] {
			shortages = append(shortages, Shortage{
				ProductID: id,
				Requested: totals[id],
				Available: levels[id],
			})
		}
	}
	return shortages
}

// Aggregate sums requested quantities per product.
func Aggregate(reqs []Request) map[int64]int64 {
	totals := make(map[int64]int64, len(reqs))
	for _, r := range reqs {
		totals[r.ProductID] += r.Quantity
	}
	return totals
}

// productIDs returns the distinct product IDs of reqs in ascending order,
// which is also the row lock order.
func productIDs(reqs []Request) []int64 {
	seen := make(map[int64]struct{}, len(reqs))
	ids := make([]int64, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.ProductID]; ok {
			continue
		}
		seen[r.ProductID] = struct{}{}
		ids = append(ids, r.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
