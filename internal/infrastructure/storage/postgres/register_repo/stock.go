// Package register_repo provides the PostgreSQL side of the stock ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/registers/stock"
	"stockbook/internal/infrastructure/storage/postgres"
)

const productsTable = "products"

// StockRepo implements stock.Repository over products.current_stock.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) levelsQuery(productIDs []int64, forUpdate bool) squirrel.SelectBuilder {
	q := r.builder.
		Select("id", "current_stock").
		From(productsTable).
		Where(squirrel.Eq{"id": productIDs}).
		OrderBy("id")
	if forUpdate {
		q = q.Suffix("FOR UPDATE")
	}
	return q
}

// Levels implements stock.Repository. Rows are locked in id order.
func (r *StockRepo) Levels(ctx context.Context, productIDs []int64, forUpdate bool) (map[int64]int64, error) {
	levels := make(map[int64]int64, len(productIDs))
	if len(productIDs) == 0 {
		return levels, nil
	}

	sql, args, err := r.levelsQuery(productIDs, forUpdate).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query stock levels: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, level int64
		if err := rows.Scan(&id, &level); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels[id] = level
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock levels: %w", err)
	}
	return levels, nil
}

func (r *StockRepo) increaseQuery(productID, qty int64) squirrel.UpdateBuilder {
	return r.builder.
		Update(productsTable).
		Set("current_stock", squirrel.Expr("current_stock + ?", qty)).
		Where(squirrel.Eq{"id": productID})
}

// decreaseQuery never takes stock below zero: the row is only touched
// when it still holds qty.
func (r *StockRepo) decreaseQuery(productID, qty int64) squirrel.UpdateBuilder {
	return r.builder.
		Update(productsTable).
		Set("current_stock", squirrel.Expr("current_stock - ?", qty)).
		Where(squirrel.Eq{"id": productID}).
		Where(squirrel.GtOrEq{"current_stock": qty})
}

// Increase implements stock.Repository.
func (r *StockRepo) Increase(ctx context.Context, productID, qty int64) error {
	sql, args, err := r.increaseQuery(productID, qty).ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("increase stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// Decrease implements stock.Repository.
func (r *StockRepo) Decrease(ctx context.Context, productID, qty int64) (bool, error) {
	sql, args, err := r.decreaseQuery(productID, qty).ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if postgres.IsCheckViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("decrease stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
