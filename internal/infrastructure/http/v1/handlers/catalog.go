package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/entity"
	"stockbook/internal/domain"
)

// CatalogService is the CRUD surface a CatalogHandler drives.
// *domain.CatalogService satisfies it.
type CatalogService[T entity.Persistable] interface {
	Create(ctx context.Context, entity T) error
	GetByID(ctx context.Context, id int64) (T, error)
	Update(ctx context.Context, entity T) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter domain.ListFilter) ([]T, error)
}

// CatalogHandler provides generic HTTP handlers for catalog entities.
type CatalogHandler[T entity.Persistable, Req any] struct {
	*BaseHandler
	service CatalogService[T]

	newEntity   func(req Req) T
	applyUpdate func(req Req, existing T) T
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T entity.Persistable, Req any] struct {
	Service CatalogService[T]

	// NewEntity maps a create request onto a fresh entity
	NewEntity func(req Req) T

	// ApplyUpdate maps an update request onto the stored entity
	ApplyUpdate func(req Req, existing T) T
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T entity.Persistable, Req any](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T, Req],
) *CatalogHandler[T, Req] {
	return &CatalogHandler[T, Req]{
		BaseHandler: base,
		service:     cfg.Service,
		newEntity:   cfg.NewEntity,
		applyUpdate: cfg.ApplyUpdate,
	}
}

// List handles GET /{entity}?search=&orderBy=
func (h *CatalogHandler[T, Req]) List(c *gin.Context) {
	filter := domain.ListFilter{
		Search:  c.Query("search"),
		OrderBy: c.DefaultQuery("orderBy", "name"),
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	writeList(c, items)
}

// Get handles GET /{entity}/:id
func (h *CatalogHandler[T, Req]) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	item, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, item)
}

// Create handles POST /{entity}
func (h *CatalogHandler[T, Req]) Create(c *gin.Context) {
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	item := h.newEntity(req)
	if err := h.service.Create(c.Request.Context(), item); err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, item)
}

// Update handles PUT /{entity}/:id
func (h *CatalogHandler[T, Req]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	existing, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	updated := h.applyUpdate(req, existing)
	if err := h.service.Update(ctx, updated); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, updated)
}

// Delete handles DELETE /{entity}/:id
func (h *CatalogHandler[T, Req]) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}
