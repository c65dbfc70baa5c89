package documents_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx/txtest"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/domain/registers/stock"
)

var errDiskFull = errors.New("disk full")

// state is everything a transaction may touch; it is copied on begin and
// restored on rollback.
type state struct {
	stock    map[int64]int64
	receipts map[int64]receipt.Receipt
	sales    map[int64]sale.Sale
	items    map[documents.Kind][]documents.Item
	seq      map[string]int64
	nextID   int64
}

func (s state) clone() state {
	c := state{
		stock:    make(map[int64]int64, len(s.stock)),
		receipts: make(map[int64]receipt.Receipt, len(s.receipts)),
		sales:    make(map[int64]sale.Sale, len(s.sales)),
		items:    make(map[documents.Kind][]documents.Item, len(s.items)),
		seq:      make(map[string]int64, len(s.seq)),
		nextID:   s.nextID,
	}
	for k, v := range s.stock {
		c.stock[k] = v
	}
	for k, v := range s.receipts {
		c.receipts[k] = v
	}
	for k, v := range s.sales {
		c.sales[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]documents.Item(nil), v...)
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	return c
}

// world is an in-memory store shared by the fake repositories.
type world struct {
	state
	saved state

	txm      *txtest.Manager
	ledger   *stock.Service
	recorder *recorder

	// failItemAt fails the n-th InsertItem call (1-based, counted per world).
	failItemAt int
	itemCalls  int
	failTotal  bool
	suppliers  map[int64]bool
}

func newWorld(levels map[int64]int64) *world {
	w := &world{
		state: state{
			stock:    levels,
			receipts: map[int64]receipt.Receipt{},
			sales:    map[int64]sale.Sale{},
			items:    map[documents.Kind][]documents.Item{},
			seq:      map[string]int64{},
		},
		suppliers: map[int64]bool{1: true},
		recorder:  &recorder{committed: map[string]int{}, rejected: map[string]int{}},
	}
	w.txm = &txtest.Manager{
		OnBegin:    func() { w.saved = w.state.clone() },
		OnRollback: func() { w.state = w.saved },
	}
	w.ledger = stock.NewService(stockRepo{w}, w.txm)
	return w
}

func (w *world) deps() documents.Deps {
	return documents.Deps{
		TxManager: w.txm,
		Ledger:    w.ledger,
		Numerator: seqNumerator{w},
		Recorder:  w.recorder,
	}
}

func (w *world) receiptService() *receipt.Service {
	return receipt.NewService(&receiptRepo{w}, supplierChecker{w}, w.deps(), "RC")
}

func (w *world) saleService() *sale.Service {
	return sale.NewService(&saleRepo{w}, w.deps(), "SL")
}

func (w *world) insertItem(kind documents.Kind, item *documents.Item) error {
	w.itemCalls++
	if w.failItemAt > 0 && w.itemCalls == w.failItemAt {
		return errDiskFull
	}
	w.nextID++
	item.ID = w.nextID
	w.items[kind] = append(w.items[kind], *item)
	return nil
}

func (w *world) itemsOf(kind documents.Kind, docID int64) []documents.Item {
	var out []documents.Item
	for _, it := range w.items[kind] {
		if it.DocumentID == docID {
			out = append(out, it)
		}
	}
	return out
}

// --- stock ---

type stockRepo struct{ w *world }

func (r stockRepo) Levels(ctx context.Context, ids []int64, forUpdate bool) (map[int64]int64, error) {
	out := map[int64]int64{}
	for _, id := range ids {
		if v, ok := r.w.stock[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (r stockRepo) Increase(ctx context.Context, id, qty int64) error {
	if _, ok := r.w.stock[id]; !ok {
		return apperror.NewNotFound("product", id)
	}
	r.w.stock[id] += qty
	return nil
}

func (r stockRepo) Decrease(ctx context.Context, id, qty int64) (bool, error) {
	if v, ok := r.w.stock[id]; !ok || v < qty {
		return false, nil
	}
	r.w.stock[id] -= qty
	return true, nil
}

// --- receipts ---

type receiptRepo struct{ w *world }

func (r *receiptRepo) InsertHeader(ctx context.Context, h *receipt.Receipt) error {
	r.w.nextID++
	h.Assign(r.w.nextID, time.Now())
	r.w.receipts[h.ID] = *h
	return nil
}

func (r *receiptRepo) InsertItem(ctx context.Context, item *documents.Item) error {
	return r.w.insertItem(documents.KindReceipt, item)
}

func (r *receiptRepo) UpdateTotal(ctx context.Context, id int64, total types.Money) error {
	if r.w.failTotal {
		return errDiskFull
	}
	h := r.w.receipts[id]
	h.TotalAmount = total
	r.w.receipts[id] = h
	return nil
}

func (r *receiptRepo) GetByID(ctx context.Context, id int64) (*receipt.Receipt, error) {
	h, ok := r.w.receipts[id]
	if !ok {
		return nil, apperror.NewNotFound("receipts", id)
	}
	h.Items = r.w.itemsOf(documents.KindReceipt, id)
	return &h, nil
}

func (r *receiptRepo) List(ctx context.Context, f receipt.ListFilter) ([]*receipt.Receipt, error) {
	var out []*receipt.Receipt
	for _, h := range r.w.receipts {
		if !f.Period.Contains(h.Date) {
			continue
		}
		h := h
		out = append(out, &h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

type supplierChecker struct{ w *world }

func (s supplierChecker) Exists(ctx context.Context, id int64) (bool, error) {
	return s.w.suppliers[id], nil
}

// --- sales ---

type saleRepo struct{ w *world }

func (r *saleRepo) InsertHeader(ctx context.Context, h *sale.Sale) error {
	r.w.nextID++
	h.Assign(r.w.nextID, time.Now())
	r.w.sales[h.ID] = *h
	return nil
}

func (r *saleRepo) InsertItem(ctx context.Context, item *documents.Item) error {
	return r.w.insertItem(documents.KindSale, item)
}

func (r *saleRepo) UpdateTotal(ctx context.Context, id int64, total types.Money) error {
	if r.w.failTotal {
		return errDiskFull
	}
	h := r.w.sales[id]
	h.TotalAmount = total
	r.w.sales[id] = h
	return nil
}

func (r *saleRepo) GetByID(ctx context.Context, id int64) (*sale.Sale, error) {
	h, ok := r.w.sales[id]
	if !ok {
		return nil, apperror.NewNotFound("sales", id)
	}
	h.Items = r.w.itemsOf(documents.KindSale, id)
	return &h, nil
}

func (r *saleRepo) List(ctx context.Context, f sale.ListFilter) ([]*sale.Sale, error) {
	var out []*sale.Sale
	for _, h := range r.w.sales {
		if !f.Period.Contains(h.Date) {
			continue
		}
		h := h
		h.ItemsCount = int64(len(r.w.itemsOf(documents.KindSale, h.ID)))
		out = append(out, &h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// --- numerator & metrics ---

type seqNumerator struct{ w *world }

func (n seqNumerator) Next(ctx context.Context, cfg numerator.Config, period time.Time) (string, error) {
	n.w.seq[cfg.Prefix]++
	return fmt.Sprintf("%s-%d-%05d", cfg.Prefix, period.Year(), n.w.seq[cfg.Prefix]), nil
}

type recorder struct {
	committed map[string]int
	rejected  map[string]int
}

func (r *recorder) DocumentCommitted(kind string, lines int, total types.Money) {
	r.committed[kind]++
}

func (r *recorder) DocumentRejected(kind, code string) {
	r.rejected[kind+":"+code]++
}
