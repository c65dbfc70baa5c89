package dto

import (
	"stockbook/internal/core/types"
	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/catalogs/supplier"
)

// StockLevelResponse is the current stock of one product.
type StockLevelResponse struct {
	ProductID    int64 `json:"productId"`
	CurrentStock int64 `json:"currentStock"`
}

// ProductRequest is the body of product create and update.
// Stock is not part of it: only documents move stock.
type ProductRequest struct {
	Article       string      `json:"article"`
	Name          string      `json:"name"`
	PurchasePrice types.Money `json:"purchasePrice"`
	RetailPrice   types.Money `json:"retailPrice"`
	Supplier      string      `json:"supplier"`
	Category      string      `json:"category"`
	MinStock      int64       `json:"minStock"`
}

// ToProduct builds a new product.
func (r ProductRequest) ToProduct() *product.Product {
	p := &product.Product{}
	r.ApplyTo(p)
	return p
}

// ApplyTo overwrites the editable fields of p.
func (r ProductRequest) ApplyTo(p *product.Product) *product.Product {
	p.Article = r.Article
	p.Name = r.Name
	p.PurchasePrice = r.PurchasePrice
	p.RetailPrice = r.RetailPrice
	p.Supplier = r.Supplier
	p.Category = r.Category
	p.MinStock = r.MinStock
	return p
}

// SupplierRequest is the body of supplier create and update.
type SupplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
}

// ToSupplier builds a new supplier.
func (r SupplierRequest) ToSupplier() *supplier.Supplier {
	s := &supplier.Supplier{}
	r.ApplyTo(s)
	return s
}

// ApplyTo overwrites the editable fields of s.
func (r SupplierRequest) ApplyTo(s *supplier.Supplier) *supplier.Supplier {
	s.Name = r.Name
	s.ContactPerson = r.ContactPerson
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	return s
}
