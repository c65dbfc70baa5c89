package supplier

import (
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the supplier catalog.
// Deleting a supplier leaves receipts that reference it in place.
type Service struct {
	*domain.CatalogService[*Supplier]
}

// NewService creates a new supplier service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Supplier]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "supplier",
		}),
	}
}
