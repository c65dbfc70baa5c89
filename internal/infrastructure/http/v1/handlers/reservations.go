package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/reservations"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReservationService is implemented by *reservations.Service.
type ReservationService interface {
	Create(ctx context.Context, in reservations.CreateInput) (*reservations.Reservation, error)
	GetByID(ctx context.Context, id int64) (*reservations.Reservation, error)
	List(ctx context.Context, filter reservations.ListFilter) ([]*reservations.Reservation, error)
	Complete(ctx context.Context, id int64) (*reservations.Reservation, error)
	Cancel(ctx context.Context, id int64) (*reservations.Reservation, error)
}

// ReservationHandler serves /reservations.
type ReservationHandler struct {
	*BaseHandler
	service ReservationService
}

// NewReservationHandler creates a new reservation handler.
func NewReservationHandler(base *BaseHandler, service ReservationService) *ReservationHandler {
	return &ReservationHandler{BaseHandler: base, service: service}
}

// List handles GET /reservations?status=&productId=
func (h *ReservationHandler) List(c *gin.Context) {
	var q dto.ReservationListQuery
	if !h.BindQuery(c, &q) {
		return
	}

	items, err := h.service.List(c.Request.Context(), q.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}
	writeList(c, items)
}

// Get handles GET /reservations/:id
func (h *ReservationHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}

// Create handles POST /reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req dto.CreateReservationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	r, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, r)
}

// Complete handles POST /reservations/:id/complete
func (h *ReservationHandler) Complete(c *gin.Context) {
	h.transition(c, h.service.Complete)
}

// Cancel handles POST /reservations/:id/cancel
func (h *ReservationHandler) Cancel(c *gin.Context) {
	h.transition(c, h.service.Cancel)
}

func (h *ReservationHandler) transition(c *gin.Context, apply func(context.Context, int64) (*reservations.Reservation, error)) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := apply(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, r)
}
