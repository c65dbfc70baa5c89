// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/entity"
	"stockbook/internal/domain"
	"stockbook/internal/infrastructure/storage/postgres"
)

// generated columns are filled by the database and never written.
var generated = map[string]struct{}{"id": {}, "created_at": {}}

// BaseCatalogRepo provides common CRUD operations for catalog entities.
// Embed this in specific catalog repositories.
type BaseCatalogRepo[T entity.Persistable] struct {
	txm        *postgres.TxManager
	tableName  string
	entityName string
	selectCols []string
	newFn      func() T

	searchCols []string
	immutable  map[string]struct{}

	// uniques maps a unique constraint name to the column it guards.
	uniques map[string]string
}

// NewBaseCatalogRepo creates a new base catalog repository.
func NewBaseCatalogRepo[T entity.Persistable](
	txm *postgres.TxManager,
	tableName, entityName string,
	selectCols []string,
	newFn func() T,
) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		entityName: entityName,
		selectCols: selectCols,
		newFn:      newFn,
		searchCols: []string{"name"},
		immutable:  map[string]struct{}{},
		uniques:    map[string]string{},
	}
}

// Searchable sets the columns matched by ListFilter.Search.
func (r *BaseCatalogRepo[T]) Searchable(cols ...string) *BaseCatalogRepo[T] {
	r.searchCols = cols
	return r
}

// Immutable excludes cols from UPDATE statements.
func (r *BaseCatalogRepo[T]) Immutable(cols ...string) *BaseCatalogRepo[T] {
	for _, c := range cols {
		r.immutable[c] = struct{}{}
	}
	return r
}

// Unique registers a unique constraint so its violation is reported as
// DUPLICATE_ENTRY on column.
func (r *BaseCatalogRepo[T]) Unique(constraint, column string) *BaseCatalogRepo[T] {
	r.uniques[constraint] = column
	return r
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *BaseCatalogRepo[T]) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

func (r *BaseCatalogRepo[T]) writableData(entity T, skip map[string]struct{}) (map[string]any, error) {
	data := postgres.StructToMap(entity)
	if len(data) == 0 {
		return nil, fmt.Errorf("no db tags found in %s", r.entityName)
	}

	out := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if _, ok := generated[col]; ok {
			continue
		}
		if _, ok := skip[col]; ok {
			continue
		}
		if val, ok := data[col]; ok {
			out[col] = val
		}
	}
	return out, nil
}

func (r *BaseCatalogRepo[T]) insertQuery(entity T) (squirrel.InsertBuilder, error) {
	data, err := r.writableData(entity, nil)
	if err != nil {
		return squirrel.InsertBuilder{}, err
	}
	return r.Builder().
		Insert(r.tableName).
		SetMap(data).
		Suffix("RETURNING id, created_at"), nil
}

func (r *BaseCatalogRepo[T]) updateQuery(entity T) (squirrel.UpdateBuilder, error) {
	data, err := r.writableData(entity, r.immutable)
	if err != nil {
		return squirrel.UpdateBuilder{}, err
	}
	return r.Builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": entity.GetID()}), nil
}

// Create inserts a new entity using its "db" tags and assigns the
// generated id and created_at.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, entity T) error {
	q, err := r.insertQuery(entity)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var (
		newID     int64
		createdAt time.Time
	)
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&newID, &createdAt); err != nil {
		if dup := r.duplicate(err, entity); dup != nil {
			return dup
		}
		return fmt.Errorf("insert %s: %w", r.tableName, err)
	}

	entity.Assign(newID, createdAt)
	return nil
}

// Update writes every column except generated and immutable ones.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, entity T) error {
	q, err := r.updateQuery(entity)
	if err != nil {
		return err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		if dup := r.duplicate(err, entity); dup != nil {
			return dup
		}
		return fmt.Errorf("update %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entity.GetID())
	}
	return nil
}

// duplicate maps a unique violation on a registered constraint.
func (r *BaseCatalogRepo[T]) duplicate(err error, entity T) error {
	constraint, ok := postgres.UniqueViolation(err)
	if !ok {
		return nil
	}
	col, known := r.uniques[constraint]
	if !known {
		return apperror.NewConflict(r.entityName+" violates a unique constraint").
			WithDetail("constraint", constraint).
			WithCause(err)
	}
	value := fmt.Sprint(postgres.StructToMap(entity)[col])
	return apperror.NewDuplicate(r.entityName, col, value).WithCause(err)
}

// baseSelect creates a SELECT builder.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName)
}

// GetByID retrieves entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID int64) (T, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"id": entityID}).
		Limit(1)

	return r.FindOne(ctx, q, entityID)
}

// FindOne executes a SELECT query and returns a single entity.
// key identifies the lookup in the NOT_FOUND error.
func (r *BaseCatalogRepo[T]) FindOne(ctx context.Context, q squirrel.SelectBuilder, key any) (T, error) {
	entity := r.newFn()

	sql, args, err := q.ToSql()
	if err != nil {
		return entity, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return entity, apperror.NewNotFound(r.entityName, key)
		}
		return entity, fmt.Errorf("get %s: %w", r.tableName, err)
	}

	return entity, nil
}

// likeEscaper makes wildcard characters in a search term match literally.
// Backslash is the default LIKE escape in PostgreSQL.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *BaseCatalogRepo[T]) listQuery(filter domain.ListFilter) (squirrel.SelectBuilder, error) {
	q := r.baseSelect()

	if s := strings.TrimSpace(filter.Search); s != "" && len(r.searchCols) > 0 {
		pattern := "%" + likeEscaper.Replace(s) + "%"
		or := make(squirrel.Or, 0, len(r.searchCols))
		for _, col := range r.searchCols {
			or = append(or, squirrel.ILike{col: pattern})
		}
		q = q.Where(or)
	}

	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return q, err
	}
	return q.OrderBy(orderBy), nil
}

// List retrieves entities matching the filter. Lists are not paginated.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) ([]T, error) {
	q, err := r.listQuery(filter)
	if err != nil {
		return nil, err
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]T, 0)
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", r.tableName, err)
	}
	return items, nil
}

// Exists checks if entity exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID int64) (bool, error) {
	return r.exists(ctx, squirrel.Eq{"id": entityID})
}

func (r *BaseCatalogRepo[T]) exists(ctx context.Context, where ...squirrel.Sqlizer) (bool, error) {
	q := r.Builder().
		Select("1").
		From(r.tableName).
		Limit(1)
	for _, w := range where {
		q = q.Where(w)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists in %s: %w", r.tableName, err)
	}
	return true, nil
}

// Delete physically removes the row. References from documents are plain
// columns, so nothing blocks or cascades.
func (r *BaseCatalogRepo[T]) Delete(ctx context.Context, entityID int64) error {
	q := r.Builder().
		Delete(r.tableName).
		Where(squirrel.Eq{"id": entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.tableName, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(r.entityName, entityID)
	}
	return nil
}

func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	if orderBy == "" {
		return "name ASC", nil
	}

	// Support "-field" for DESC.
	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}
	field = strings.TrimSpace(field)

	for _, col := range r.selectCols {
		if col == field {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").
		WithDetail("orderBy", orderBy).
		WithDetail("field", field)
}
