// Package product provides the product catalog: the goods whose on-hand
// quantity the stock ledger maintains.
package product

import (
	"context"
	"strings"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/types"
)

// Product is a stocked item identified by its unique article.
type Product struct {
	entity.BaseEntity

	// Article is the business key, unique across products
	Article string `db:"article" json:"article"`

	Name string `db:"name" json:"name"`

	PurchasePrice types.Money `db:"purchase_price" json:"purchasePrice"`
	RetailPrice   types.Money `db:"retail_price" json:"retailPrice"`

	// Supplier and Category are free text, not references
	Supplier string `db:"supplier" json:"supplier"`
	Category string `db:"category" json:"category"`

	// MinStock is an informational threshold used by the low-stock report
	MinStock int64 `db:"min_stock" json:"minStock"`

	// CurrentStock is the running on-hand counter. Only the stock ledger
	// changes it; catalog updates never write this column.
	CurrentStock int64 `db:"current_stock" json:"currentStock"`
}

// Normalize trims user-entered text fields.
func (p *Product) Normalize() {
	p.Article = strings.TrimSpace(p.Article)
	p.Name = strings.TrimSpace(p.Name)
	p.Supplier = strings.TrimSpace(p.Supplier)
	p.Category = strings.TrimSpace(p.Category)
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	p.Normalize()

	if p.Article == "" {
		return apperror.NewValidation("article is required").
			WithDetail("field", "article")
	}
	if p.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	if p.PurchasePrice.IsNegative() {
		return apperror.NewValidation("purchase price must not be negative").
			WithDetail("field", "purchasePrice")
	}
	if !types.FitsMoneyScale(p.PurchasePrice) {
		return apperror.NewValidation("purchase price must have at most two decimal places").
			WithDetail("field", "purchasePrice")
	}
	if p.RetailPrice.IsNegative() {
		return apperror.NewValidation("retail price must not be negative").
			WithDetail("field", "retailPrice")
	}
	if !types.FitsMoneyScale(p.RetailPrice) {
		return apperror.NewValidation("retail price must have at most two decimal places").
			WithDetail("field", "retailPrice")
	}
	if p.MinStock < 0 {
		return apperror.NewValidation("minimum stock must not be negative").
			WithDetail("field", "minStock")
	}
	return nil
}
