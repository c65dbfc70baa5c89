// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/documents"
	"stockbook/internal/infrastructure/storage/postgres"
)

// tables names the header and line tables of one document type.
type tables struct {
	header     string
	items      string
	dateColumn string // header date column, read back as doc_date
	foreignKey string // items column referencing the header, read back as document_id
}

// BaseDocumentRepo implements documents.Store for a header type H.
// Headers are written once with a zero total and patched by UpdateTotal;
// there is no update or delete path.
type BaseDocumentRepo[H documents.Header] struct {
	txm       *postgres.TxManager
	t         tables
	writeCols []string
}

// NewBaseDocumentRepo creates a new base document repository. writeCols
// are the header columns taken from H's "db" tags on insert; the date is
// always written to t.dateColumn.
func NewBaseDocumentRepo[H documents.Header](txm *postgres.TxManager, t tables, writeCols ...string) *BaseDocumentRepo[H] {
	return &BaseDocumentRepo[H]{
		txm:       txm,
		t:         t,
		writeCols: writeCols,
	}
}

// Builder returns a new squirrel builder.
func (r *BaseDocumentRepo[H]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseDocumentRepo[H]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseDocumentRepo[H]) insertHeaderQuery(header H) squirrel.InsertBuilder {
	data := postgres.StructToMap(header)
	values := make(map[string]any, len(r.writeCols)+1)
	for _, col := range r.writeCols {
		values[col] = data[col]
	}
	values[r.t.dateColumn] = header.GetDate()

	return r.Builder().
		Insert(r.t.header).
		SetMap(values).
		Suffix("RETURNING id, created_at")
}

// InsertHeader implements documents.Store.
func (r *BaseDocumentRepo[H]) InsertHeader(ctx context.Context, header H) error {
	sql, args, err := r.insertHeaderQuery(header).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var (
		newID     int64
		createdAt time.Time
	)
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID, &createdAt); err != nil {
		return fmt.Errorf("insert %s: %w", r.t.header, err)
	}

	header.Assign(newID, createdAt)
	return nil
}

func (r *BaseDocumentRepo[H]) insertItemQuery(item *documents.Item) squirrel.InsertBuilder {
	return r.Builder().
		Insert(r.t.items).
		Columns(r.t.foreignKey, "product_id", "quantity", "price", "total").
		Values(item.DocumentID, item.ProductID, item.Quantity, item.Price, item.Total).
		Suffix("RETURNING id")
}

// InsertItem implements documents.Store.
func (r *BaseDocumentRepo[H]) InsertItem(ctx context.Context, item *documents.Item) error {
	sql, args, err := r.insertItemQuery(item).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&item.ID); err != nil {
		return fmt.Errorf("insert %s: %w", r.t.items, err)
	}
	return nil
}

// UpdateTotal implements documents.Store.
func (r *BaseDocumentRepo[H]) UpdateTotal(ctx context.Context, documentID int64, total types.Money) error {
	sql, args, err := r.Builder().
		Update(r.t.header).
		Set("total_amount", total).
		Where(squirrel.Eq{"id": documentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update %s total: %w", r.t.header, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("update %s total: document %d not found", r.t.header, documentID)
	}
	return nil
}

func (r *BaseDocumentRepo[H]) itemsQuery(documentID int64) squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"i.id",
			"i."+r.t.foreignKey+" AS document_id",
			"i.product_id",
			"COALESCE(p.name, '') AS product_name",
			"i.quantity",
			"i.price",
			"i.total",
		).
		From(r.t.items + " i").
		LeftJoin("products p ON p.id = i.product_id").
		Where(squirrel.Eq{"i." + r.t.foreignKey: documentID}).
		OrderBy("i.id")
}

// Items returns the lines of one document in input order.
func (r *BaseDocumentRepo[H]) Items(ctx context.Context, documentID int64) ([]documents.Item, error) {
	sql, args, err := r.itemsQuery(documentID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]documents.Item, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.t.items, err)
	}
	return items, nil
}

// applyPeriod restricts q to an inclusive date range on col.
func applyPeriod(q squirrel.SelectBuilder, col string, period types.DateRange) squirrel.SelectBuilder {
	if period.From != nil {
		q = q.Where(squirrel.GtOrEq{col: types.DateOf(*period.From)})
	}
	if period.To != nil {
		q = q.Where(squirrel.LtOrEq{col: types.DateOf(*period.To)})
	}
	return q
}
