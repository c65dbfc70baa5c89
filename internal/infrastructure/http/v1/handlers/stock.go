package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"stockbook/internal/infrastructure/http/v1/dto"
)

// StockReader reads the stock counter. *stock.Service satisfies it.
type StockReader interface {
	Level(ctx context.Context, productID int64) (int64, error)
}

// StockHandler serves the current stock of a product.
type StockHandler struct {
	*BaseHandler
	ledger StockReader
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, ledger StockReader) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledger}
}

// Level handles GET /products/:id/stock
func (h *StockHandler) Level(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	level, err := h.ledger.Level(c.Request.Context(), id)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.StockLevelResponse{ProductID: id, CurrentStock: level})
}
