package product

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx"
	"stockbook/internal/domain"
)

// Service provides business logic for the product catalog.
type Service struct {
	*domain.CatalogService[*Product]
	repo Repository
}

// NewService creates a new product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "product",
	})

	svc := &Service{
		CatalogService: base,
		repo:           repo,
	}

	base.Hooks().OnBeforeCreate(svc.prepareForCreate)
	base.Hooks().OnBeforeUpdate(svc.checkArticleUnique)

	return svc
}

// prepareForCreate starts every product at zero stock and checks the article.
func (s *Service) prepareForCreate(ctx context.Context, p *Product) error {
	p.CurrentStock = 0
	return s.checkArticleUnique(ctx, p)
}

func (s *Service) checkArticleUnique(ctx context.Context, p *Product) error {
	exists, err := s.repo.ExistsByArticle(ctx, p.Article, p.ID)
	if err != nil {
		return err
	}
	if exists {
		return apperror.NewDuplicate("product", "article", p.Article)
	}
	return nil
}

// Search lists products whose name or article contains query.
func (s *Service) Search(ctx context.Context, query string) ([]*Product, error) {
	return s.List(ctx, domain.ListFilter{Search: query, OrderBy: "name"})
}
