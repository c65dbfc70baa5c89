package document_repo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/documents/sale"
	"stockbook/internal/infrastructure/storage/postgres"
)

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	*BaseDocumentRepo[*sale.Sale]
}

var _ sale.Repository = (*SaleRepo)(nil)

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		BaseDocumentRepo: NewBaseDocumentRepo[*sale.Sale](txm, tables{
			header:     "sales",
			items:      "sale_items",
			dateColumn: "sale_date",
			foreignKey: "sale_id",
		}, "document_number", "client_name", "client_address", "total_amount"),
	}
}

var saleColumns = []string{
	"s.id",
	"s.created_at",
	"s.document_number",
	"s.sale_date AS doc_date",
	"s.client_name",
	"s.client_address",
	"s.total_amount",
}

func (r *SaleRepo) listQuery(filter sale.ListFilter) squirrel.SelectBuilder {
	q := r.Builder().
		Select(slices.Concat(saleColumns, []string{"COUNT(i.id) AS items_count"})...).
		From("sales s").
		LeftJoin("sale_items i ON i.sale_id = s.id")

	q = applyPeriod(q, "s.sale_date", filter.Period)
	if c := strings.TrimSpace(filter.Client); c != "" {
		q = q.Where(squirrel.ILike{"s.client_name": "%" + c + "%"})
	}

	return q.GroupBy("s.id").OrderBy("s.sale_date DESC", "s.id DESC")
}

// GetByID implements sale.Repository.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*sale.Sale, error) {
	sql, args, err := r.Builder().
		Select(saleColumns...).
		From("sales s").
		Where(squirrel.Eq{"s.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	doc := new(sale.Sale)
	if err := pgxscan.Get(ctx, r.querier(ctx), doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", id)
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	if doc.Items, err = r.Items(ctx, id); err != nil {
		return nil, err
	}
	doc.ItemsCount = int64(len(doc.Items))
	return doc, nil
}

// List implements sale.Repository.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	docs := make([]*sale.Sale, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return docs, nil
}
