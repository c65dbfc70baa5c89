package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReceiptService is implemented by *receipt.Service.
type ReceiptService interface {
	Create(ctx context.Context, in receipt.CreateInput) (*documents.Result, error)
	GetByID(ctx context.Context, id int64) (*receipt.Receipt, error)
	List(ctx context.Context, filter receipt.ListFilter) ([]*receipt.Receipt, error)
}

// ReceiptHandler serves /receipts.
type ReceiptHandler struct {
	*BaseHandler
	service ReceiptService
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(base *BaseHandler, service ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{BaseHandler: base, service: service}
}

// List handles GET /receipts?from=&to=&supplierId=
func (h *ReceiptHandler) List(c *gin.Context) {
	var q dto.ReceiptListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	writeList(c, items)
}

// Get handles GET /receipts/:id
func (h *ReceiptHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /receipts
func (h *ReceiptHandler) Create(c *gin.Context) {
	var req dto.CreateReceiptRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, result)
}

// SaleService is implemented by *sale.Service.
type SaleService interface {
	Create(ctx context.Context, in sale.CreateInput) (*documents.Result, error)
	GetByID(ctx context.Context, id int64) (*sale.Sale, error)
	List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error)
}

// SaleHandler serves /sales.
type SaleHandler struct {
	*BaseHandler
	service SaleService
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(base *BaseHandler, service SaleService) *SaleHandler {
	return &SaleHandler{BaseHandler: base, service: service}
}

// List handles GET /sales?from=&to=&client=
func (h *SaleHandler) List(c *gin.Context) {
	var q dto.SaleListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	writeList(c, items)
}

// Get handles GET /sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	doc, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, doc)
}

// Create handles POST /sales. A shortage on any line rejects the whole sale
// with INSUFFICIENT_STOCK.
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.Created(c, result)
}
