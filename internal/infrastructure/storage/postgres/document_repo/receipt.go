package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/documents/receipt"
	"stockbook/internal/infrastructure/storage/postgres"
)

// ReceiptRepo implements receipt.Repository.
type ReceiptRepo struct {
	*BaseDocumentRepo[*receipt.Receipt]
}

var _ receipt.Repository = (*ReceiptRepo)(nil)

// NewReceiptRepo creates a new receipt repository.
func NewReceiptRepo(txm *postgres.TxManager) *ReceiptRepo {
	return &ReceiptRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*receipt.Receipt](txm, tables{
			header:     "receipts",
			items:      "receipt_items",
			dateColumn: "receipt_date",
			foreignKey: "receipt_id",
		}, "document_number", "supplier_id", "total_amount"),
	}
}

func (r *ReceiptRepo) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(
			"r.id",
			"r.created_at",
			"r.document_number",
			"r.receipt_date AS doc_date",
			"r.total_amount",
			"r.supplier_id",
			"s.name AS supplier_name",
		).
		From("receipts r").
		LeftJoin("suppliers s ON s.id = r.supplier_id")
}

func (r *ReceiptRepo) listQuery(filter receipt.ListFilter) squirrel.SelectBuilder {
	q := applyPeriod(r.baseSelect(), "r.receipt_date", filter.Period)
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"r.supplier_id": *filter.SupplierID})
	}
	return q.OrderBy("r.receipt_date DESC", "r.id DESC")
}

// GetByID implements receipt.Repository.
func (r *ReceiptRepo) GetByID(ctx context.Context, id int64) (*receipt.Receipt, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := new(receipt.Receipt)
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("receipt", id)
		}
		return nil, fmt.Errorf("get receipt: %w", err)
	}

	if doc.Items, err = r.Items(ctx, id); err != nil {
		return nil, err
	}
	return doc, nil
}

// List implements receipt.Repository.
func (r *ReceiptRepo) List(ctx context.Context, filter receipt.ListFilter) ([]*receipt.Receipt, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	docs := make([]*receipt.Receipt, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	return docs, nil
}
