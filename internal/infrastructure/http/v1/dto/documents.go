package dto

import (
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
)

// LineRequest is one document line. A zero productId marks a blank row.
type LineRequest struct {
	ProductID int64       `json:"productId"`
	Quantity  int64       `json:"quantity"`
	UnitPrice types.Money `json:"unitPrice"`
}

func toLines(in []LineRequest) []documents.Line {
	lines := make([]documents.Line, len(in))
	for i, l := range in {
		lines[i] = documents.Line{ProductID: l.ProductID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return lines
}

// CreateReceiptRequest registers incoming goods. Dates are YYYY-MM-DD and
// default to today; an empty number is generated.
type CreateReceiptRequest struct {
	DocumentNumber string        `json:"documentNumber"`
	SupplierID     int64         `json:"supplierId"`
	ReceiptDate    string        `json:"receiptDate"`
	Lines          []LineRequest `json:"lines"`
}

// ToInput converts the request for receipt.Service.Create.
func (r CreateReceiptRequest) ToInput() (receipt.CreateInput, error) {
	date, err := parseDate("receiptDate", r.ReceiptDate)
	if err != nil {
		return receipt.CreateInput{}, err
	}
	return receipt.CreateInput{
		DocumentNumber: r.DocumentNumber,
		SupplierID:     r.SupplierID,
		ReceiptDate:    date,
		Lines:          toLines(r.Lines),
	}, nil
}

// ReceiptListQuery filters the receipt journal.
type ReceiptListQuery struct {
	PeriodQuery
	SupplierID int64 `form:"supplierId"`
}

// ToFilter converts the query for receipt.Service.List.
func (q ReceiptListQuery) ToFilter() (receipt.ListFilter, error) {
	period, err := q.Range()
	if err != nil {
		return receipt.ListFilter{}, err
	}
	f := receipt.ListFilter{Period: period}
	if q.SupplierID > 0 {
		f.SupplierID = &q.SupplierID
	}
	return f, nil
}

// CreateSaleRequest registers goods leaving to a client.
type CreateSaleRequest struct {
	DocumentNumber string        `json:"documentNumber"`
	ClientName     string        `json:"clientName"`
	ClientAddress  string        `json:"clientAddress"`
	SaleDate       string        `json:"saleDate"`
	Lines          []LineRequest `json:"lines"`
}

// ToInput converts the request for sale.Service.Create.
func (r CreateSaleRequest) ToInput() (sale.CreateInput, error) {
	date, err := parseDate("saleDate", r.SaleDate)
	if err != nil {
		return sale.CreateInput{}, err
	}
	return sale.CreateInput{
		DocumentNumber: r.DocumentNumber,
		ClientName:     r.ClientName,
		ClientAddress:  r.ClientAddress,
		SaleDate:       date,
		Lines:          toLines(r.Lines),
	}, nil
}

// SaleListQuery filters the sales journal.
type SaleListQuery struct {
	PeriodQuery
	Client string `form:"client"`
}

// ToFilter converts the query for sale.Service.List.
func (q SaleListQuery) ToFilter() (sale.ListFilter, error) {
	period, err := q.Range()
	if err != nil {
		return sale.ListFilter{}, err
	}
	return sale.ListFilter{Period: period, Client: q.Client}, nil
}
