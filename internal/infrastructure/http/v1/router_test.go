package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/catalogs/product"
	"stockbook/internal/domain/catalogs/supplier"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/reports"
	"stockbook/internal/domain/reservations"
	"stockbook/internal/infrastructure/export"
	"stockbook/pkg/logger"
)

// --- fakes ---

type fakeCatalog[T interface {
	*E
	Validate(context.Context) error
	GetID() int64
	Assign(int64, time.Time)
}, E any] struct {
	items  map[int64]T
	nextID int64
	filter domain.ListFilter
}

func newFakeCatalog[T interface {
	*E
	Validate(context.Context) error
	GetID() int64
	Assign(int64, time.Time)
}, E any]() *fakeCatalog[T, E] {
	return &fakeCatalog[T, E]{items: map[int64]T{}}
}

func (f *fakeCatalog[T, E]) Create(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	f.nextID++
	e.Assign(f.nextID, time.Time{})
	f.items[f.nextID] = e
	return nil
}

func (f *fakeCatalog[T, E]) GetByID(_ context.Context, id int64) (T, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, apperror.NewNotFound("entity", id)
	}
	return e, nil
}

func (f *fakeCatalog[T, E]) Update(ctx context.Context, e T) error {
	if err := e.Validate(ctx); err != nil {
		return err
	}
	f.items[e.GetID()] = e
	return nil
}

func (f *fakeCatalog[T, E]) Delete(_ context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return apperror.NewNotFound("entity", id)
	}
	delete(f.items, id)
	return nil
}

func (f *fakeCatalog[T, E]) List(_ context.Context, filter domain.ListFilter) ([]T, error) {
	f.filter = filter
	out := make([]T, 0, len(f.items))
	for _, e := range f.items {
		out = append(out, e)
	}
	return out, nil
}

type fakeReceipts struct {
	got receipt.CreateInput
}

func (f *fakeReceipts) Create(_ context.Context, in receipt.CreateInput) (*documents.Result, error) {
	f.got = in
	return &documents.Result{ID: 1, Number: "RC-2024-00001", Total: types.MustMoney("10")}, nil
}

func (f *fakeReceipts) GetByID(_ context.Context, id int64) (*receipt.Receipt, error) {
	return nil, apperror.NewNotFound("receipt", id)
}

func (f *fakeReceipts) List(context.Context, receipt.ListFilter) ([]*receipt.Receipt, error) {
	return nil, nil
}

type fakeSales struct {
	err    error
	filter sale.ListFilter
}

func (f *fakeSales) Create(context.Context, sale.CreateInput) (*documents.Result, error) {
	return nil, f.err
}

func (f *fakeSales) GetByID(_ context.Context, id int64) (*sale.Sale, error) {
	return nil, apperror.NewNotFound("sale", id)
}

func (f *fakeSales) List(_ context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	f.filter = filter
	return []*sale.Sale{}, nil
}

type fakeReservations struct {
	status reservations.Status
}

func (f *fakeReservations) Create(_ context.Context, in reservations.CreateInput) (*reservations.Reservation, error) {
	return &reservations.Reservation{ClientName: in.ClientName, Status: reservations.StatusActive}, nil
}

func (f *fakeReservations) GetByID(_ context.Context, id int64) (*reservations.Reservation, error) {
	return nil, apperror.NewNotFound("reservation", id)
}

func (f *fakeReservations) List(context.Context, reservations.ListFilter) ([]*reservations.Reservation, error) {
	return nil, nil
}

func (f *fakeReservations) Complete(_ context.Context, id int64) (*reservations.Reservation, error) {
	return f.move(id, reservations.StatusCompleted)
}

func (f *fakeReservations) Cancel(_ context.Context, id int64) (*reservations.Reservation, error) {
	return f.move(id, reservations.StatusCancelled)
}

func (f *fakeReservations) move(id int64, to reservations.Status) (*reservations.Reservation, error) {
	if !f.status.CanTransitionTo(to) {
		return nil, apperror.NewInvalidTransition("reservation", id, string(f.status), string(to))
	}
	f.status = to
	return &reservations.Reservation{Status: to}, nil
}

type fakeReports struct{}

func (fakeReports) Stock(context.Context) (*reports.StockReport, error) {
	return &reports.StockReport{Items: []reports.StockRow{{Article: "A-1", Name: "Bolt", CurrentStock: 3}}, TotalQuantity: 3}, nil
}

func (fakeReports) LowStock(context.Context) (*reports.LowStockReport, error) {
	return &reports.LowStockReport{Rule: "current_stock <= min_stock"}, nil
}

func (fakeReports) Movements(context.Context, reports.Filter) (*reports.MovementReport, error) {
	return &reports.MovementReport{}, nil
}

func (fakeReports) Sales(context.Context, reports.Filter) (*reports.SalesReport, error) {
	panic("boom")
}

type fakeStock map[int64]int64

func (f fakeStock) Level(_ context.Context, id int64) (int64, error) {
	level, ok := f[id]
	if !ok {
		return 0, apperror.NewNotFound("product", id)
	}
	return level, nil
}

type fakeDB struct{ err error }

func (f fakeDB) Ready(context.Context) error { return f.err }

type fakeMetrics struct{ routes []string }

func (m *fakeMetrics) ObserveHTTP(_, route string, _ int, _ time.Duration) {
	m.routes = append(m.routes, route)
}

func (m *fakeMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})
}

// --- harness ---

type harness struct {
	products     *fakeCatalog[*product.Product, product.Product]
	suppliers    *fakeCatalog[*supplier.Supplier, supplier.Supplier]
	receipts     *fakeReceipts
	sales        *fakeSales
	reservations *fakeReservations
	metrics      *fakeMetrics
	db           *fakeDB
	handler      http.Handler
}

func newHarness() *harness {
	h := &harness{
		products:     newFakeCatalog[*product.Product, product.Product](),
		suppliers:    newFakeCatalog[*supplier.Supplier, supplier.Supplier](),
		receipts:     &fakeReceipts{},
		sales:        &fakeSales{},
		reservations: &fakeReservations{status: reservations.StatusActive},
		metrics:      &fakeMetrics{},
		db:           &fakeDB{},
	}
	h.handler = NewRouter(RouterConfig{
		Logger:       logger.NewFromZap(zap.NewNop()),
		DB:           h.db,
		Metrics:      h.metrics,
		Products:     h.products,
		Stock:        fakeStock{1: 15},
		Suppliers:    h.suppliers,
		Receipts:     h.receipts,
		Sales:        h.sales,
		Reservations: h.reservations,
		Reports:      fakeReports{},
	})
	return h
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

// --- tests ---

func TestProductCRUD(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodPost, "/api/v1/products", `{"article":"A-1","name":"Bolt","retailPrice":"2.50","minStock":5}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "2.5", created["retailPrice"])

	rec = h.do(http.MethodPut, "/api/v1/products/1", `{"article":"A-1","name":"Big bolt"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Big bolt", h.products.items[1].Name)

	rec = h.do(http.MethodGet, "/api/v1/products?search=bolt", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), decode(t, rec)["count"])
	assert.Equal(t, "bolt", h.products.filter.Search)

	rec = h.do(http.MethodDelete, "/api/v1/products/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/products/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, rec)["code"])
}

func TestProductStockLevel(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodGet, "/api/v1/products/1/stock", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["productId"])
	assert.Equal(t, float64(15), body["currentStock"])

	rec = h.do(http.MethodGet, "/api/v1/products/9/stock", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/products/x/stock", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidationErrors(t *testing.T) {
	h := newHarness()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"bad id", http.MethodGet, "/api/v1/products/abc", ""},
		{"zero id", http.MethodGet, "/api/v1/suppliers/0", ""},
		{"malformed json", http.MethodPost, "/api/v1/suppliers", `{"name":`},
		{"empty supplier name", http.MethodPost, "/api/v1/suppliers", `{"name":"  "}`},
		{"bad date", http.MethodPost, "/api/v1/receipts", `{"supplierId":1,"receiptDate":"15.03.2024"}`},
		{"inverted period", http.MethodGet, "/api/v1/sales?from=2024-02-01&to=2024-01-01", ""},
		{"unknown format", http.MethodGet, "/api/v1/reports/stock?format=pdf", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, apperror.CodeValidation, decode(t, rec)["code"])
		})
	}
}

func TestReceiptCreate(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodPost, "/api/v1/receipts",
		`{"supplierId":1,"receiptDate":"2024-03-15","lines":[{"productId":7,"quantity":10,"unitPrice":"1.00"}]}`)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "RC-2024-00001", decode(t, rec)["documentNumber"])
	assert.Equal(t, int64(1), h.receipts.got.SupplierID)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), h.receipts.got.ReceiptDate)
	require.Len(t, h.receipts.got.Lines, 1)
	assert.Equal(t, int64(10), h.receipts.got.Lines[0].Quantity)
}

func TestSaleShortageIsUnprocessable(t *testing.T) {
	h := newHarness()
	h.sales.err = apperror.NewInsufficientStock(7, 5, 3)

	rec := h.do(http.MethodPost, "/api/v1/sales",
		`{"clientName":"Ann","lines":[{"productId":7,"quantity":5,"unitPrice":"1"}]}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperror.CodeInsufficientStock, body["code"])
	details := body["details"].(map[string]any)
	assert.Equal(t, float64(3), details["available"])
}

func TestStorageCauseIsHidden(t *testing.T) {
	h := newHarness()
	h.sales.err = apperror.NewStorage("create sale", errors.New("pq: connection reset"))

	rec := h.do(http.MethodPost, "/api/v1/sales", `{"clientName":"Ann"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeDatabase, decode(t, rec)["code"])
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestSalesListFilter(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodGet, "/api/v1/sales?from=2024-01-01&client=ann", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ann", h.sales.filter.Client)
	require.NotNil(t, h.sales.filter.Period.From)
	assert.Nil(t, h.sales.filter.Period.To)
	assert.Equal(t, []any{}, decode(t, rec)["items"])
}

func TestReservationTransitions(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodPost, "/api/v1/reservations/4/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decode(t, rec)["status"])

	rec = h.do(http.MethodPost, "/api/v1/reservations/4/cancel", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperror.CodeInvalidTransition, decode(t, rec)["code"])
}

func TestReportXLSX(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodGet, "/api/v1/reports/stock?format=xlsx", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="stock_`)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip archive")
}

func TestReportJSON(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodGet, "/api/v1/reports/low-stock", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "current_stock <= min_stock", decode(t, rec)["rule"])
}

func TestPanicBecomesInternalError(t *testing.T) {
	h := newHarness()

	rec := h.do(http.MethodGet, "/api/v1/reports/sales", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apperror.CodeInternal, decode(t, rec)["code"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness()

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/health/ready", "").Code)

	h.db.err = errors.New("connection refused")
	assert.Equal(t, http.StatusServiceUnavailable, h.do(http.MethodGet, "/health/ready", "").Code)

	rec := h.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, "metrics", rec.Body.String())

	h.do(http.MethodGet, "/nowhere", "")
	assert.Contains(t, h.metrics.routes, "/health/ready")
	assert.Contains(t, h.metrics.routes, "unmatched")
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newHarness()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}
