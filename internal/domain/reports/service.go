package reports

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
)

// Service provides report generation operations.
// Every report reads inside one read-only transaction.
type Service struct {
	repo     Repository
	txm      tx.ReadOnlyManager
	lowStock *LowStockRule
}

// NewService creates a new reports service. A nil rule selects the default.
func NewService(repo Repository, txm tx.ReadOnlyManager, lowStock *LowStockRule) *Service {
	if lowStock == nil {
		lowStock, _ = NewLowStockRule(DefaultLowStockRule)
	}
	return &Service{repo: repo, txm: txm, lowStock: lowStock}
}

func (s *Service) snapshot(ctx context.Context) ([]StockRow, error) {
	var rows []StockRow
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.StockSnapshot(ctx)
		return err
	})
	return rows, err
}

// Stock returns the current stock snapshot with its valuation.
func (s *Service) Stock(ctx context.Context) (*StockReport, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, apperror.WrapStorage("stock report", err)
	}

	report := &StockReport{
		GeneratedAt: time.Now(),
		Items:       rows,
		TotalValue:  types.Zero(),
	}
	for _, row := range rows {
		report.TotalQuantity += row.CurrentStock
		report.TotalValue = report.TotalValue.Add(row.Value)
	}
	return report, nil
}

// LowStock returns the products matched by the configured rule.
func (s *Service) LowStock(ctx context.Context) (*LowStockReport, error) {
	rows, err := s.snapshot(ctx)
	if err != nil {
		return nil, apperror.WrapStorage("low-stock report", err)
	}

	report := &LowStockReport{
		GeneratedAt: time.Now(),
		Rule:        s.lowStock.String(),
		Items:       []StockRow{},
	}
	for _, row := range rows {
		ok, err := s.lowStock.Match(row)
		if err != nil {
			return nil, apperror.NewInternal(err)
		}
		if ok {
			report.Items = append(report.Items, row)
		}
	}
	return report, nil
}

// Movements returns the movement ledger for the period.
func (s *Service) Movements(ctx context.Context, filter Filter) (*MovementReport, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}

	var rows []MovementRow
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.Movements(ctx, filter)
		return err
	})
	if err != nil {
		return nil, apperror.WrapStorage("movement report", err)
	}

	report := &MovementReport{
		From:  filter.Period.From,
		To:    filter.Period.To,
		Items: rows,
	}
	for _, row := range rows {
		switch row.Kind {
		case KindReceipt:
			report.TotalReceived += row.Quantity
		case KindSale:
			report.TotalSold += row.Quantity
		}
	}
	return report, nil
}

// Sales returns the sales summary for the period.
func (s *Service) Sales(ctx context.Context, filter Filter) (*SalesReport, error) {
	if err := filter.Period.Validate(); err != nil {
		return nil, err
	}

	var rows []SalesRow
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.repo.SalesSummary(ctx, filter)
		return err
	})
	if err != nil {
		return nil, apperror.WrapStorage("sales report", err)
	}

	report := &SalesReport{
		From:        filter.Period.From,
		To:          filter.Period.To,
		Items:       rows,
		Count:       len(rows),
		TotalAmount: types.Zero(),
	}
	for _, row := range rows {
		report.TotalAmount = report.TotalAmount.Add(row.TotalAmount)
	}
	return report, nil
}
