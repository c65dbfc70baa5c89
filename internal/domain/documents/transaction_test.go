package documents_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
)

const productA int64 = 1

var docDate = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func line(productID, qty int64, price string) documents.Line {
	return documents.Line{ProductID: productID, Quantity: qty, UnitPrice: types.MustMoney(price)}
}

func TestReceiptThenSales(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 10})
	ctx := context.Background()

	rc, err := w.receiptService().Create(ctx, receipt.CreateInput{
		DocumentNumber: "RC-1",
		SupplierID:     1,
		ReceiptDate:    docDate,
		Lines:          []documents.Line{line(productA, 5, "2.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "10.00", rc.Total.StringFixed(2))
	assert.Equal(t, int64(15), w.stock[productA])

	sl, err := w.saleService().Create(ctx, sale.CreateInput{
		DocumentNumber: "SL-1",
		ClientName:     "Acme",
		SaleDate:       docDate,
		Lines:          []documents.Line{line(productA, 12, "3.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, "36.00", sl.Total.StringFixed(2))
	assert.Equal(t, int64(3), w.stock[productA])

	_, err = w.saleService().Create(ctx, sale.CreateInput{
		ClientName: "Acme",
		SaleDate:   docDate,
		Lines:      []documents.Line{line(productA, 5, "3.00")},
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInsufficientStock, appErr.Code)
	assert.Equal(t, int64(5), appErr.Details["requested"])
	assert.Equal(t, int64(3), appErr.Details["available"])

	assert.Equal(t, int64(3), w.stock[productA])
	assert.Len(t, w.sales, 1)
	assert.Len(t, w.items[documents.KindSale], 1)
	assert.Equal(t, 1, w.recorder.rejected["sale:"+apperror.CodeInsufficientStock])
}

func TestSale_DuplicateLinesAreSummed(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 5, 2: 100})
	ctx := context.Background()

	_, err := w.saleService().Create(ctx, sale.CreateInput{
		ClientName: "Acme",
		SaleDate:   docDate,
		Lines: []documents.Line{
			line(2, 10, "1.00"),
			line(productA, 3, "1.00"),
			line(productA, 3, "1.00"),
		},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	// nothing moved, not even the line that was in stock
	assert.Equal(t, int64(5), w.stock[productA])
	assert.Equal(t, int64(100), w.stock[2])
	assert.Empty(t, w.sales)
	assert.Empty(t, w.items[documents.KindSale])
}

func TestSale_ExactStockIsAllowed(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 6})

	_, err := w.saleService().Create(context.Background(), sale.CreateInput{
		ClientName: "Acme",
		SaleDate:   docDate,
		Lines:      []documents.Line{line(productA, 4, "1.00"), line(productA, 2, "1.00")},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), w.stock[productA])
}

func TestTotalIsSumOfLineTotals(t *testing.T) {
	w := newWorld(map[int64]int64{1: 0, 2: 0, 3: 0})

	res, err := w.receiptService().Create(context.Background(), receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines: []documents.Line{
			line(1, 3, "0.10"),
			line(2, 7, "19.99"),
			line(3, 1, "0"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "140.23", res.Total.StringFixed(2))
	require.Len(t, res.Items, 3)
	assert.Equal(t, "139.93", res.Items[1].Total.StringFixed(2))

	stored, err := w.receiptService().GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.True(t, stored.TotalAmount.Equal(res.Total))
	assert.Len(t, stored.Items, 3)
}

func TestStoredLinesMatchQuantityTimesPrice(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 0, 2: 0})
	ctx := context.Background()

	_, err := w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines:       []documents.Line{line(productA, 3, "0.333")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Zero(t, w.txm.Begun)
	assert.Empty(t, w.items[documents.KindReceipt])

	res, err := w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines:       []documents.Line{line(productA, 3, "0.33"), line(2, 7, "1.50")},
	})
	require.NoError(t, err)

	sum := types.Zero()
	for _, item := range w.items[documents.KindReceipt] {
		want := item.Price.Mul(types.NewMoney(float64(item.Quantity)))
		assert.True(t, item.Total.Equal(want), "line %d: %s != %s", item.ProductID, item.Total, want)
		sum = sum.Add(want)
	}
	assert.True(t, res.Total.Equal(sum))
	assert.Equal(t, "11.49", res.Total.StringFixed(2))
}

func TestBlankLinesAreDropped(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 0})
	ctx := context.Background()

	res, err := w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines: []documents.Line{
			{},
			line(productA, 2, "1.50"),
			{Quantity: 9, UnitPrice: types.MustMoney("5")},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 1)
	assert.Equal(t, int64(2), w.stock[productA])

	_, err = w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines:       []documents.Line{{}, {}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Len(t, w.receipts, 1)
}

func TestValidationRunsBeforeTransaction(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 10})
	ctx := context.Background()

	tests := []struct {
		name  string
		input sale.CreateInput
		field string
	}{
		{
			name:  "missing client",
			input: sale.CreateInput{ClientName: "  ", Lines: []documents.Line{line(productA, 1, "1")}},
			field: "clientName",
		},
		{
			name:  "zero quantity",
			input: sale.CreateInput{ClientName: "Acme", Lines: []documents.Line{line(productA, 0, "1")}},
			field: "quantity",
		},
		{
			name:  "negative price",
			input: sale.CreateInput{ClientName: "Acme", Lines: []documents.Line{line(productA, 1, "-1")}},
			field: "unitPrice",
		},
		{
			name:  "sub-cent price",
			input: sale.CreateInput{ClientName: "Acme", Lines: []documents.Line{line(productA, 3, "0.333")}},
			field: "unitPrice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.saleService().Create(ctx, tt.input)
			require.Error(t, err)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}

	assert.Zero(t, w.txm.Begun)
	assert.Equal(t, int64(10), w.stock[productA])
}

func TestReferenceChecks(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 10})
	ctx := context.Background()

	_, err := w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  42,
		ReceiptDate: docDate,
		Lines:       []documents.Line{line(productA, 1, "1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	_, err = w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines:       []documents.Line{line(productA, 1, "1"), line(99, 1, "1")},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))

	assert.Equal(t, int64(10), w.stock[productA])
	assert.Empty(t, w.receipts)
	assert.Equal(t, 2, w.txm.RolledBack)
}

func TestStorageFailureRollsBack(t *testing.T) {
	tests := []struct {
		name  string
		setup func(w *world)
	}{
		{name: "second item insert fails", setup: func(w *world) { w.failItemAt = 2 }},
		{name: "total update fails", setup: func(w *world) { w.failTotal = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld(map[int64]int64{1: 10, 2: 10})
			tt.setup(w)

			_, err := w.saleService().Create(context.Background(), sale.CreateInput{
				ClientName: "Acme",
				SaleDate:   docDate,
				Lines:      []documents.Line{line(1, 4, "1.00"), line(2, 4, "1.00")},
			})
			require.Error(t, err)
			assert.True(t, apperror.IsStorage(err))
			assert.ErrorIs(t, err, errDiskFull)

			assert.Equal(t, int64(10), w.stock[1])
			assert.Equal(t, int64(10), w.stock[2])
			assert.Empty(t, w.sales)
			assert.Empty(t, w.items[documents.KindSale])
			assert.Equal(t, 1, w.txm.RolledBack)
			assert.Equal(t, 1, w.recorder.rejected["sale:"+apperror.CodeDatabase])
		})
	}
}

func TestDocumentNumbers(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 100})
	ctx := context.Background()
	in := func(number string) sale.CreateInput {
		return sale.CreateInput{
			DocumentNumber: number,
			ClientName:     "Acme",
			SaleDate:       docDate,
			Lines:          []documents.Line{line(productA, 1, "1")},
		}
	}

	first, err := w.saleService().Create(ctx, in(""))
	require.NoError(t, err)
	assert.Equal(t, "SL-2024-00001", first.Number)

	manual, err := w.saleService().Create(ctx, in("INV/77"))
	require.NoError(t, err)
	assert.Equal(t, "INV/77", manual.Number)

	// a rolled back document does not consume a number
	w.failTotal = true
	_, err = w.saleService().Create(ctx, in(""))
	require.Error(t, err)
	w.failTotal = false

	second, err := w.saleService().Create(ctx, in(""))
	require.NoError(t, err)
	assert.Equal(t, "SL-2024-00002", second.Number)

	rc, err := w.receiptService().Create(ctx, receipt.CreateInput{
		SupplierID:  1,
		ReceiptDate: docDate,
		Lines:       []documents.Line{line(productA, 1, "1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "RC-2024-00001", rc.Number)
}

func TestStockEqualsReceiptsMinusSales(t *testing.T) {
	const start = 20
	w := newWorld(map[int64]int64{1: start, 2: start, 3: start})
	ctx := context.Background()
	rnd := rand.New(rand.NewSource(7))

	received := map[int64]int64{}
	sold := map[int64]int64{}

	for i := 0; i < 200; i++ {
		var lines []documents.Line
		for n := rnd.Intn(3) + 1; n > 0; n-- {
			lines = append(lines, line(int64(rnd.Intn(3)+1), int64(rnd.Intn(8)+1), "1.00"))
		}

		if rnd.Intn(2) == 0 {
			_, err := w.receiptService().Create(ctx, receipt.CreateInput{SupplierID: 1, ReceiptDate: docDate, Lines: lines})
			require.NoError(t, err)
			for _, l := range lines {
				received[l.ProductID] += l.Quantity
			}
			continue
		}

		_, err := w.saleService().Create(ctx, sale.CreateInput{ClientName: "Acme", SaleDate: docDate, Lines: lines})
		if err != nil {
			require.True(t, apperror.IsValidation(err), "unexpected error: %v", err)
			continue
		}
		for _, l := range lines {
			sold[l.ProductID] += l.Quantity
		}
	}

	for id := int64(1); id <= 3; id++ {
		assert.GreaterOrEqual(t, w.stock[id], int64(0))
		assert.Equal(t, start+received[id]-sold[id], w.stock[id], "product %d", id)
	}
	assert.Equal(t, len(w.receipts), w.recorder.committed["receipt"])
	assert.Equal(t, len(w.sales), w.recorder.committed["sale"])
}

func TestListFiltersByPeriod(t *testing.T) {
	w := newWorld(map[int64]int64{productA: 100})
	ctx := context.Background()

	for _, d := range []time.Time{docDate, docDate.AddDate(0, 0, 1), docDate.AddDate(0, 1, 0)} {
		_, err := w.saleService().Create(ctx, sale.CreateInput{
			ClientName: "Acme",
			SaleDate:   d,
			Lines:      []documents.Line{line(productA, 1, "1")},
		})
		require.NoError(t, err)
	}

	from, to := docDate, docDate.AddDate(0, 0, 1)
	got, err := w.saleService().List(ctx, sale.ListFilter{Period: types.DateRange{From: &from, To: &to}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, to, got[0].Date)

	_, err = w.saleService().List(ctx, sale.ListFilter{Period: types.DateRange{From: &to, To: &from}})
	assert.True(t, apperror.IsValidation(err))

	_, err = w.saleService().GetByID(ctx, 9999)
	assert.True(t, apperror.IsNotFound(err))
}
