package handlers

import (
	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/catalogs/supplier"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves /products.
type ProductHandler = CatalogHandler[*product.Product, dto.ProductRequest]

// NewProductHandler creates the product catalog handler.
func NewProductHandler(base *BaseHandler, svc CatalogService[*product.Product]) *ProductHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.ProductRequest]{
		Service:     svc,
		NewEntity:   dto.ProductRequest.ToProduct,
		ApplyUpdate: dto.ProductRequest.ApplyTo,
	})
}

// SupplierHandler serves /suppliers.
type SupplierHandler = CatalogHandler[*supplier.Supplier, dto.SupplierRequest]

// NewSupplierHandler creates the supplier catalog handler.
func NewSupplierHandler(base *BaseHandler, svc CatalogService[*supplier.Supplier]) *SupplierHandler {
	return NewCatalogHandler(base, CatalogHandlerConfig[*supplier.Supplier, dto.SupplierRequest]{
		Service:     svc,
		NewEntity:   dto.SupplierRequest.ToSupplier,
		ApplyUpdate: dto.SupplierRequest.ApplyTo,
	})
}
