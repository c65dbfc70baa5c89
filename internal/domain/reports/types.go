// Package reports provides read-only views over stock and documents.
// Reports are computed on every request; nothing is cached.
package reports

import (
	"time"

	"stockbook/internal/core/types"
)

// Filter limits a report to an inclusive range of document dates.
type Filter struct {
	Period types.DateRange
}

// --- Stock snapshot ---

// StockRow is one product in the stock snapshot.
type StockRow struct {
	ProductID    int64       `db:"product_id" json:"productId"`
	Article      string      `db:"article" json:"article"`
	Name         string      `db:"name" json:"name"`
	Category     string      `db:"category" json:"category"`
	CurrentStock int64       `db:"current_stock" json:"currentStock"`
	MinStock     int64       `db:"min_stock" json:"minStock"`
	RetailPrice  types.Money `db:"retail_price" json:"retailPrice"`

	// Value is current_stock * retail_price.
	Value types.Money `db:"value" json:"value"`
}

// StockReport is the current state of every product, ordered by name.
type StockReport struct {
	GeneratedAt   time.Time   `json:"generatedAt"`
	Items         []StockRow  `json:"items"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalValue    types.Money `json:"totalValue"`
}

// LowStockReport lists the products matched by the low-stock rule.
type LowStockReport struct {
	GeneratedAt time.Time  `json:"generatedAt"`
	Rule        string     `json:"rule"`
	Items       []StockRow `json:"items"`
}

// --- Movement ledger ---

// Movement kinds.
const (
	KindReceipt = "receipt"
	KindSale    = "sale"
)

// MovementRow is one document line seen as a stock movement.
type MovementRow struct {
	Date           time.Time   `db:"doc_date" json:"date"`
	Kind           string      `db:"kind" json:"kind"`
	DocumentID     int64       `db:"document_id" json:"documentId"`
	DocumentNumber string      `db:"document_number" json:"documentNumber"`
	ProductID      int64       `db:"product_id" json:"productId"`
	Article        *string     `db:"article" json:"article,omitempty"`
	ProductName    *string     `db:"product_name" json:"productName,omitempty"`
	Quantity       int64       `db:"quantity" json:"quantity"`
	Price          types.Money `db:"price" json:"price"`
	Total          types.Money `db:"total" json:"total"`

	// Counterparty is the supplier name for receipts and the client for sales.
	Counterparty *string `db:"counterparty" json:"counterparty,omitempty"`
}

// MovementReport is the movement ledger, newest first.
type MovementReport struct {
	From          *time.Time    `json:"from,omitempty"`
	To            *time.Time    `json:"to,omitempty"`
	Items         []MovementRow `json:"items"`
	TotalReceived int64         `json:"totalReceived"`
	TotalSold     int64         `json:"totalSold"`
}

// --- Sales summary ---

// SalesRow is one sale document in the summary.
type SalesRow struct {
	ID             int64       `db:"id" json:"id"`
	DocumentNumber string      `db:"document_number" json:"documentNumber"`
	Date           time.Time   `db:"doc_date" json:"date"`
	ClientName     string      `db:"client_name" json:"clientName"`
	ItemsCount     int64       `db:"items_count" json:"itemsCount"`
	TotalAmount    types.Money `db:"total_amount" json:"totalAmount"`
}

// SalesReport is the sales summary, newest first.
type SalesReport struct {
	From        *time.Time  `json:"from,omitempty"`
	To          *time.Time  `json:"to,omitempty"`
	Items       []SalesRow  `json:"items"`
	Count       int         `json:"count"`
	TotalAmount types.Money `json:"totalAmount"`
}
