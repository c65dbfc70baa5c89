package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"stockbook/internal/core/apperror"
	"stockbook/internal/domain/reservations"
	"stockbook/internal/infrastructure/storage/postgres"
)

// ReservationRepo implements reservations.Repository.
type ReservationRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ reservations.Repository = (*ReservationRepo)(nil)

// NewReservationRepo creates a new reservation repository.
func NewReservationRepo(txm *postgres.TxManager) *ReservationRepo {
	return &ReservationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReservationRepo) insertQuery(res *reservations.Reservation) squirrel.InsertBuilder {
	return r.builder.
		Insert("reservations").
		Columns("client_name", "product_id", "quantity", "reservation_date", "expiry_date", "status").
		Values(res.ClientName, res.ProductID, res.Quantity, res.ReservationDate, res.ExpiryDate, string(res.Status)).
		Suffix("RETURNING id, created_at")
}

// Create implements reservations.Repository.
func (r *ReservationRepo) Create(ctx context.Context, res *reservations.Reservation) error {
	sql, args, err := r.insertQuery(res).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	var (
		newID     int64
		createdAt time.Time
	)
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&newID, &createdAt); err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}
	res.Assign(newID, createdAt)
	return nil
}

func (r *ReservationRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(
			"r.id",
			"r.created_at",
			"r.client_name",
			"r.product_id",
			"p.name AS product_name",
			"r.quantity",
			"r.reservation_date",
			"r.expiry_date",
			"r.status",
		).
		From("reservations r").
		LeftJoin("products p ON p.id = r.product_id")
}

func (r *ReservationRepo) listQuery(filter reservations.ListFilter) squirrel.SelectBuilder {
	q := r.baseSelect()
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"r.status": string(filter.Status)})
	}
	if filter.ProductID != 0 {
		q = q.Where(squirrel.Eq{"r.product_id": filter.ProductID})
	}
	return q.OrderBy("r.reservation_date DESC", "r.id DESC")
}

// GetByID implements reservations.Repository.
func (r *ReservationRepo) GetByID(ctx context.Context, id int64) (*reservations.Reservation, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	res := new(reservations.Reservation)
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), res, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("reservation", id)
		}
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return res, nil
}

// List implements reservations.Repository.
func (r *ReservationRepo) List(ctx context.Context, filter reservations.ListFilter) ([]*reservations.Reservation, error) {
	sql, args, err := r.listQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := make([]*reservations.Reservation, 0)
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return items, nil
}

func (r *ReservationRepo) transitionQuery(id int64, from, to reservations.Status) squirrel.UpdateBuilder {
	return r.builder.
		Update("reservations").
		Set("status", string(to)).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": string(from)})
}

// Transition implements reservations.Repository.
func (r *ReservationRepo) Transition(ctx context.Context, id int64, from, to reservations.Status) (bool, error) {
	sql, args, err := r.transitionQuery(id, from, to).ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	tag, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return false, fmt.Errorf("update reservation status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
