package product

import (
	"context"

	"stockbook/internal/domain"
)

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]

	// ExistsByArticle reports whether another product (not excludeID) uses article.
	ExistsByArticle(ctx context.Context, article string, excludeID int64) (bool, error)
}
