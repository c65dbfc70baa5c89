package catalog_repo

import (
	"stockbook/internal/domain/catalogs/supplier"
	"stockbook/internal/infrastructure/storage/postgres"
)

const suppliersTable = "suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			suppliersTable,
			"supplier",
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return new(supplier.Supplier) },
		).Searchable("name", "contact_person"),
	}
}
