package reports

import (
	"context"
)

// Repository defines report data access interface.
type Repository interface {
	// StockSnapshot returns every product ordered by name.
	StockSnapshot(ctx context.Context) ([]StockRow, error)

	// Movements returns receipt and sale lines within the filter, newest first.
	Movements(ctx context.Context, filter Filter) ([]MovementRow, error)

	// SalesSummary returns sale headers with line counts, newest first.
	SalesSummary(ctx context.Context, filter Filter) ([]SalesRow, error)
}
