// Package documents implements the header + line items + total recipe that
// receipts and sales share.
package documents

import (
	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/registers/stock"
)

// Kind tags a document type in logs, metrics and the movement ledger.
type Kind string

const (
	KindReceipt Kind = "receipt"
	KindSale    Kind = "sale"
)

// Line is one requested document line.
type Line struct {
	ProductID int64       `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
}

// Item is a stored document line.
type Item struct {
	ID          int64       `db:"id" json:"id"`
	DocumentID  int64       `db:"document_id" json:"documentId"`
	ProductID   int64       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName,omitempty"`
	Quantity    int64       `db:"quantity" json:"quantity"`
	Price       types.Money `db:"price" json:"price"`
	Total       types.Money `db:"total" json:"total"`
}

// ActiveLines drops lines without a selected product. Such lines are
// blank form rows, not zero-item lines, and are not counted.
func ActiveLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.ProductID == 0 {
			continue
		}
		out = append(out, l)
	}
	return out
}

// ValidateLines requires at least one line, a positive quantity and a
// non-negative price with at most two decimals on each. lineNo in details
// is 1-based.
func ValidateLines(lines []Line) error {
	if len(lines) == 0 {
		return apperror.NewValidation("at least one line item is required").
			WithDetail("field", "lines")
	}

	for i, l := range lines {
		if l.ProductID < 0 {
			return apperror.NewValidation("invalid product").
				WithDetail("lineNo", i+1).
				WithDetail("field", "productId")
		}
		if l.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("lineNo", i+1).
				WithDetail("field", "quantity")
		}
		if l.UnitPrice.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("lineNo", i+1).
				WithDetail("field", "unitPrice")
		}
		if !types.FitsMoneyScale(l.UnitPrice) {
			return apperror.NewValidation("price must have at most two decimal places").
				WithDetail("lineNo", i+1).
				WithDetail("field", "unitPrice")
		}
	}
	return nil
}

// Requests converts lines to ledger requests.
func Requests(lines []Line) []stock.Request {
	reqs := make([]stock.Request, len(lines))
	for i, l := range lines {
		reqs[i] = stock.Request{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return reqs
}
