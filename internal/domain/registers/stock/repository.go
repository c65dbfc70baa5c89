// Package stock provides the stock ledger: the single mutation path for
// products.current_stock.
package stock

import (
	"context"
)

// Repository defines the persistence operations behind the ledger.
type Repository interface {
	// Levels returns current_stock for the given products. Unknown IDs are
	// absent from the map. forUpdate locks the rows until the transaction ends.
	Levels(ctx context.Context, productIDs []int64, forUpdate bool) (map[int64]int64, error)

	// Increase adds qty to current_stock. Returns NOT_FOUND for an unknown product.
	Increase(ctx context.Context, productID, qty int64) error

	// Decrease subtracts qty only when current_stock >= qty.
	// It returns false when the guard rejected the update or the product is unknown.
	Decrease(ctx context.Context, productID, qty int64) (bool, error)
}
