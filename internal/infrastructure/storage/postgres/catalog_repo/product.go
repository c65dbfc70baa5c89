package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

var _ product.Repository = (*ProductRepo)(nil)

// NewProductRepo creates a new product repository.
// current_stock is written on insert only; afterwards the stock ledger owns it.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	base := NewBaseCatalogRepo(
		txm,
		productsTable,
		"product",
		postgres.ExtractDBColumns[product.Product](),
		func() *product.Product { return new(product.Product) },
	).
		Searchable("name", "article").
		Immutable("current_stock").
		Unique("products_article_key", "article")

	return &ProductRepo{BaseCatalogRepo: base}
}

// ExistsByArticle implements product.Repository.
func (r *ProductRepo) ExistsByArticle(ctx context.Context, article string, excludeID int64) (bool, error) {
	return r.exists(ctx,
		squirrel.Eq{"article": article},
		squirrel.NotEq{"id": excludeID},
	)
}
