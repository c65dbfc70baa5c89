package documents

import (
	"context"
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/core/numerator"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain"
	"stockbook/internal/domain/registers/stock"
	"stockbook/pkg/logger"
)

// Header is implemented by receipt and sale headers.
type Header interface {
	entity.Persistable
	GetNumber() string
	SetNumber(number string)
	GetDate() time.Time
	SetTotal(total types.Money)
}

// Store persists one document type. Every method runs inside the
// transaction opened by Transaction.Execute.
type Store[H Header] interface {
	// InsertHeader inserts the header with total_amount = 0 and assigns its ID.
	InsertHeader(ctx context.Context, header H) error

	// InsertItem inserts one line and assigns its ID.
	InsertItem(ctx context.Context, item *Item) error

	// UpdateTotal writes the accumulated total back onto the header.
	UpdateTotal(ctx context.Context, documentID int64, total types.Money) error
}

// Recorder observes document outcomes (metrics).
type Recorder interface {
	DocumentCommitted(kind string, lines int, total types.Money)
	DocumentRejected(kind, code string)
}

type nopRecorder struct{}

func (nopRecorder) DocumentCommitted(string, int, types.Money) {}
func (nopRecorder) DocumentRejected(string, string)            {}

// Deps are the collaborators shared by every document type.
type Deps struct {
	TxManager tx.Manager
	Ledger    *stock.Service
	Numerator numerator.Generator
	Recorder  Recorder
}

// Result is returned for a committed document.
type Result struct {
	ID     int64       `json:"id"`
	Number string      `json:"documentNumber"`
	Total  types.Money `json:"totalAmount"`
	Items  []Item      `json:"items"`
}

// Transaction atomically stores a header and its lines, moves stock for
// every line and writes the computed total back onto the header.
type Transaction[H Header] struct {
	kind      Kind
	store     Store[H]
	txManager tx.Manager
	ledger    *stock.Service
	numerator numerator.Generator
	numbering numerator.Config
	recorder  Recorder
	hooks     *domain.HookRegistry[H]
}

// NewTransaction creates the document recipe for kind. numbering.Prefix is
// used when a document arrives without a number.
func NewTransaction[H Header](kind Kind, store Store[H], deps Deps, numbering numerator.Config) *Transaction[H] {
	rec := deps.Recorder
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Transaction[H]{
		kind:      kind,
		store:     store,
		txManager: deps.TxManager,
		ledger:    deps.Ledger,
		numerator: deps.Numerator,
		numbering: numbering,
		recorder:  rec,
		hooks:     domain.NewHookRegistry[H](),
	}
}

// Hooks returns the hook registry. Before-create hooks run inside the
// transaction, ahead of the stock check.
func (t *Transaction[H]) Hooks() *domain.HookRegistry[H] {
	return t.hooks
}

// Execute runs the document recipe:
//
//  1. drop blank lines, validate the header and require at least one line
//  2. lock stock rows; for a sale reject the whole document on any shortage
//  3. insert the header with a zero total
//  4. per line: insert the item, credit or debit stock, accumulate the total
//  5. write the total back onto the header
//
// Steps 2-5 share one transaction. Validation failures are returned as is;
// any other failure rolls everything back and is returned as a storage error.
func (t *Transaction[H]) Execute(ctx context.Context, header H, lines []Line) (*Result, error) {
	lines = ActiveLines(lines)

	if err := header.Validate(ctx); err != nil {
		return nil, t.reject(ctx, err)
	}
	if err := ValidateLines(lines); err != nil {
		return nil, t.reject(ctx, err)
	}

	var result *Result
	err := t.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := t.hooks.Run(ctx, domain.BeforeCreate, header); err != nil {
			return err
		}

		reqs := Requests(lines)
		levels, err := t.ledger.Lock(ctx, reqs)
		if err != nil {
			return err
		}
		if t.kind == KindSale {
			if err := stock.CheckAvailability(levels, reqs); err != nil {
				return err
			}
		}

		if header.GetNumber() == "" && t.numerator != nil {
			number, err := t.numerator.Next(ctx, t.numbering, header.GetDate())
			if err != nil {
				return fmt.Errorf("generate number: %w", err)
			}
			header.SetNumber(number)
		}

		header.SetTotal(types.Zero())
		if err := t.store.InsertHeader(ctx, header); err != nil {
			return fmt.Errorf("insert %s header: %w", t.kind, err)
		}

		total := types.Zero()
		items := make([]Item, 0, len(lines))
		for i, l := range lines {
			item := Item{
				DocumentID: header.GetID(),
				ProductID:  l.ProductID,
				Quantity:   l.Quantity,
				Price:      l.UnitPrice,
				Total:      types.LineTotal(l.Quantity, l.UnitPrice),
			}
			if err := t.store.InsertItem(ctx, &item); err != nil {
				return fmt.Errorf("insert %s line %d: %w", t.kind, i+1, err)
			}
			if err := t.move(ctx, l); err != nil {
				return err
			}
			total = total.Add(item.Total)
			items = append(items, item)
		}

		if err := t.store.UpdateTotal(ctx, header.GetID(), total); err != nil {
			return fmt.Errorf("update %s total: %w", t.kind, err)
		}
		header.SetTotal(total)

		result = &Result{
			ID:     header.GetID(),
			Number: header.GetNumber(),
			Total:  total,
			Items:  items,
		}
		return nil
	})
	if err != nil {
		return nil, t.reject(ctx, apperror.WrapStorage("create "+string(t.kind), err))
	}

	t.recorder.DocumentCommitted(string(t.kind), len(result.Items), result.Total)
	if err := t.hooks.Run(ctx, domain.AfterCreate, header); err != nil {
		logger.Warn(ctx, "after-create hook failed", "kind", t.kind, "error", err)
	}

	logger.Info(ctx, string(t.kind)+" created",
		"id", result.ID,
		"number", result.Number,
		"lines", len(result.Items),
		"total", result.Total.StringFixed(types.MoneyScale))

	return result, nil
}

func (t *Transaction[H]) move(ctx context.Context, l Line) error {
	if t.kind == KindSale {
		return t.ledger.Debit(ctx, l.ProductID, l.Quantity)
	}
	return t.ledger.Credit(ctx, l.ProductID, l.Quantity)
}

func (t *Transaction[H]) reject(ctx context.Context, err error) error {
	code := apperror.CodeInternal
	if appErr, ok := apperror.AsAppError(err); ok {
		code = appErr.Code
	}
	t.recorder.DocumentRejected(string(t.kind), code)

	if apperror.IsStorage(err) {
		logger.Error(ctx, string(t.kind)+" rolled back", "error", err)
	} else {
		logger.Debug(ctx, string(t.kind)+" rejected", "code", code, "error", err)
	}
	return err
}
