// Package domain provides core business logic interfaces and types.
package domain

import (
	"context"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/tx"
	"stockbook/pkg/logger"
)

// CatalogService provides business logic for catalog entities.
type CatalogService[T entity.Persistable] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     *HookRegistry[T]

	// entityName for error messages and logs
	entityName string
}

// CatalogServiceConfig configures the catalog service.
type CatalogServiceConfig[T entity.Persistable] struct {
	Repo       CatalogRepository[T]
	TxManager  tx.Manager
	EntityName string
}

// NewCatalogService creates a new catalog service.
func NewCatalogService[T entity.Persistable](cfg CatalogServiceConfig[T]) *CatalogService[T] {
	return &CatalogService[T]{
		repo:       cfg.Repo,
		txManager:  cfg.TxManager,
		hooks:      NewHookRegistry[T](),
		entityName: cfg.EntityName,
	}
}

// Hooks returns the hook registry for external registration.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return s.hooks
}

// TxManager exposes the transaction manager to embedding services.
func (s *CatalogService[T]) TxManager() tx.Manager {
	return s.txManager
}

func (s *CatalogService[T]) normalizeValidationErr(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}
	return apperror.NewValidation(err.Error())
}

func (s *CatalogService[T]) normalizeGetErr(err error, entityID int64) error {
	if err == nil {
		return nil
	}
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound(s.entityName, entityID)
	}
	return apperror.WrapStorage("get "+s.entityName, err)
}

// Create creates a new catalog entity.
func (s *CatalogService[T]) Create(ctx context.Context, entity T) error {
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeCreate, entity); err != nil {
			return err
		}
		return s.repo.Create(ctx, entity)
	})
	if err != nil {
		return apperror.WrapStorage("create "+s.entityName, err)
	}

	if err := s.hooks.Run(ctx, AfterCreate, entity); err != nil {
		logger.Warn(ctx, "after-create hook failed", "entity", s.entityName, "error", err)
	}

	logger.Info(ctx, s.entityName+" created", "id", entity.GetID())
	return nil
}

// GetByID retrieves entity by ID.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID int64) (T, error) {
	entity, err := s.repo.GetByID(ctx, entityID)
	if err != nil {
		return entity, s.normalizeGetErr(err, entityID)
	}
	return entity, nil
}

// Update updates an existing entity.
func (s *CatalogService[T]) Update(ctx context.Context, entity T) error {
	if entity.GetID() == 0 {
		return apperror.NewValidation("id is required").WithDetail("field", "id")
	}
	if err := entity.Validate(ctx); err != nil {
		return s.normalizeValidationErr(err)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.hooks.Run(ctx, BeforeUpdate, entity); err != nil {
			return err
		}
		return s.repo.Update(ctx, entity)
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound(s.entityName, entity.GetID())
		}
		return apperror.WrapStorage("update "+s.entityName, err)
	}

	if err := s.hooks.Run(ctx, AfterUpdate, entity); err != nil {
		logger.Warn(ctx, "after-update hook failed", "entity", s.entityName, "error", err)
	}

	return nil
}

// Delete physically removes the entity.
func (s *CatalogService[T]) Delete(ctx context.Context, entityID int64) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		entity, err := s.repo.GetByID(ctx, entityID)
		if err != nil {
			return err
		}
		if err := s.hooks.Run(ctx, BeforeDelete, entity); err != nil {
			return err
		}
		return s.repo.Delete(ctx, entityID)
	})
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound(s.entityName, entityID)
		}
		return apperror.WrapStorage("delete "+s.entityName, err)
	}

	logger.Info(ctx, s.entityName+" deleted", "id", entityID)
	return nil
}

// List retrieves entities with filtering.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) ([]T, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.WrapStorage("list "+s.entityName, err)
	}
	return items, nil
}

// Exists checks if entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID int64) (bool, error) {
	ok, err := s.repo.Exists(ctx, entityID)
	if err != nil {
		return false, apperror.WrapStorage("exists "+s.entityName, err)
	}
	return ok, nil
}
