package handlers

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/reports"
	"stockbook/internal/infrastructure/export"
	"stockbook/internal/infrastructure/http/v1/dto"
)

// ReportService is implemented by *reports.Service.
type ReportService interface {
	Stock(ctx context.Context) (*reports.StockReport, error)
	LowStock(ctx context.Context) (*reports.LowStockReport, error)
	Movements(ctx context.Context, filter reports.Filter) (*reports.MovementReport, error)
	Sales(ctx context.Context, filter reports.Filter) (*reports.SalesReport, error)
}

// ReportsHandler handles HTTP requests for reports.
// Every endpoint returns JSON, or an XLSX download with ?format=xlsx.
type ReportsHandler struct {
	*BaseHandler
	service ReportService
	now     func() time.Time
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service ReportService) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
		now:         time.Now,
	}
}

// Stock handles GET /reports/stock
func (h *ReportsHandler) Stock(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	report, err := h.service.Stock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.render(c, q, "stock", report, func(w io.Writer) error { return export.WriteStock(w, report) })
}

// LowStock handles GET /reports/low-stock
func (h *ReportsHandler) LowStock(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	report, err := h.service.LowStock(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}
	h.render(c, q, "low_stock", report, func(w io.Writer) error { return export.WriteLowStock(w, report) })
}

// Movements handles GET /reports/movements?from=&to=
func (h *ReportsHandler) Movements(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	report, err := h.service.Movements(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.render(c, q, "movements", report, func(w io.Writer) error { return export.WriteMovements(w, report) })
}

// Sales handles GET /reports/sales?from=&to=
func (h *ReportsHandler) Sales(c *gin.Context) {
	q, ok := h.query(c)
	if !ok {
		return
	}
	filter, err := q.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}
	report, err := h.service.Sales(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.render(c, q, "sales", report, func(w io.Writer) error { return export.WriteSales(w, report) })
}

func (h *ReportsHandler) query(c *gin.Context) (dto.ReportQuery, bool) {
	var q dto.ReportQuery
	if !h.BindQuery(c, &q) {
		return q, false
	}
	switch q.Format {
	case "", dto.FormatJSON, dto.FormatXLSX:
		return q, true
	default:
		h.Error(c, apperror.NewValidation("unsupported format").
			WithDetail("field", "format").
			WithDetail("value", q.Format))
		return q, false
	}
}

// render writes report as JSON, or as a workbook when requested. The
// workbook is buffered so a write failure still produces an error response.
func (h *ReportsHandler) render(c *gin.Context, q dto.ReportQuery, name string, report any, write func(io.Writer) error) {
	if !q.XLSX() {
		h.OK(c, report)
		return
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.Error(c, apperror.NewInternal(err))
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(name, h.now())+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
