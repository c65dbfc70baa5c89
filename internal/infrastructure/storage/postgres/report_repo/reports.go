// Package report_repo provides PostgreSQL implementations for report repositories.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/types"
	"stockbook/internal/domain/reports"
	"stockbook/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func stockQuery() squirrel.SelectBuilder {
	return builder().
		Select(
			"id AS product_id",
			"article",
			"name",
			"category",
			"current_stock",
			"min_stock",
			"retail_price",
			"ROUND(current_stock * retail_price, 2) AS value",
		).
		From("products").
		OrderBy("name", "id")
}

// StockSnapshot implements reports.Repository.
func (r *ReportRepo) StockSnapshot(ctx context.Context) ([]reports.StockRow, error) {
	sql, args, err := stockQuery().ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.StockRow, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("stock snapshot: %w", err)
	}
	return rows, nil
}

// movementHalf selects one document type's lines as movements. Built with
// '?' placeholders so both halves can be numbered together after UNION ALL.
func movementHalf(kind, header, items, dateCol, fk, counterpartyJoin, counterparty string, period types.DateRange) squirrel.SelectBuilder {
	q := squirrel.
		Select(
			"h."+dateCol+" AS doc_date",
			"'"+kind+"' AS kind",
			"h.id AS document_id",
			"h.document_number",
			"i.product_id",
			"p.article AS article",
			"p.name AS product_name",
			"i.quantity",
			"i.price",
			"i.total",
			counterparty+" AS counterparty",
		).
		From(items + " i").
		Join(header + " h ON h.id = i." + fk).
		LeftJoin("products p ON p.id = i.product_id")
	if counterpartyJoin != "" {
		q = q.LeftJoin(counterpartyJoin)
	}

	if period.From != nil {
		q = q.Where(squirrel.GtOrEq{"h." + dateCol: types.DateOf(*period.From)})
	}
	if period.To != nil {
		q = q.Where(squirrel.LtOrEq{"h." + dateCol: types.DateOf(*period.To)})
	}
	return q
}

func movementsQuery(filter reports.Filter) (string, []any, error) {
	receipts, rArgs, err := movementHalf(reports.KindReceipt, "receipts", "receipt_items", "receipt_date", "receipt_id",
		"suppliers s ON s.id = h.supplier_id", "s.name", filter.Period).ToSql()
	if err != nil {
		return "", nil, err
	}
	sales, sArgs, err := movementHalf(reports.KindSale, "sales", "sale_items", "sale_date", "sale_id",
		"", "h.client_name", filter.Period).ToSql()
	if err != nil {
		return "", nil, err
	}

	sql := "SELECT * FROM (" + receipts + " UNION ALL " + sales + ") m ORDER BY doc_date DESC, document_id DESC, product_id"
	sql, err = squirrel.Dollar.ReplacePlaceholders(sql)
	if err != nil {
		return "", nil, err
	}
	return sql, append(rArgs, sArgs...), nil
}

// Movements implements reports.Repository.
func (r *ReportRepo) Movements(ctx context.Context, filter reports.Filter) ([]reports.MovementRow, error) {
	sql, args, err := movementsQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.MovementRow, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("movement ledger: %w", err)
	}
	return rows, nil
}

func salesQuery(filter reports.Filter) squirrel.SelectBuilder {
	q := builder().
		Select(
			"s.id",
			"s.document_number",
			"s.sale_date AS doc_date",
			"s.client_name",
			"COUNT(i.id) AS items_count",
			"s.total_amount",
		).
		From("sales s").
		LeftJoin("sale_items i ON i.sale_id = s.id")

	if filter.Period.From != nil {
		q = q.Where(squirrel.GtOrEq{"s.sale_date": types.DateOf(*filter.Period.From)})
	}
	if filter.Period.To != nil {
		q = q.Where(squirrel.LtOrEq{"s.sale_date": types.DateOf(*filter.Period.To)})
	}

	return q.GroupBy("s.id").OrderBy("s.sale_date DESC", "s.id DESC")
}

// SalesSummary implements reports.Repository.
func (r *ReportRepo) SalesSummary(ctx context.Context, filter reports.Filter) ([]reports.SalesRow, error) {
	sql, args, err := salesQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows := make([]reports.SalesRow, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return rows, nil
}
