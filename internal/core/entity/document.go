package entity

import (
	"time"

	"stockbook/internal/core/types"
)

// Document is the header shared by receipts and sales.
// Documents are append-only: once committed they are never edited or removed.
type Document struct {
	BaseEntity

	// Number is the document number; generated when left empty.
	Number string `db:"document_number" json:"documentNumber"`

	// Date is the calendar date of the document.
	Date time.Time `db:"doc_date" json:"date"`

	// TotalAmount is the sum of line totals, written back after lines are stored.
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`
}

// GetNumber returns the document number.
func (d *Document) GetNumber() string { return d.Number }

// SetNumber assigns the document number.
func (d *Document) SetNumber(n string) { d.Number = n }

// GetDate returns the document date.
func (d *Document) GetDate() time.Time { return d.Date }

// SetTotal stores the computed document total.
func (d *Document) SetTotal(total types.Money) { d.TotalAmount = total }
