package reservations

import (
	"context"
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/tx"
	"stockbook/internal/core/types"
	"stockbook/internal/domain/registers/stock"
	"stockbook/pkg/logger"
)

// Recorder observes reservation status changes (metrics).
type Recorder interface {
	ReservationChanged(status string)
}

type nopRecorder struct{}

func (nopRecorder) ReservationChanged(string) {}

// Service manages the reservation lifecycle.
type Service struct {
	repo      Repository
	ledger    *stock.Service
	txManager tx.Manager
	recorder  Recorder
}

// NewService creates a new reservation service. rec may be nil.
func NewService(repo Repository, ledger *stock.Service, txManager tx.Manager, rec Recorder) *Service {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{
		repo:      repo,
		ledger:    ledger,
		txManager: txManager,
		recorder:  rec,
	}
}

// CreateInput is the request to reserve goods.
type CreateInput struct {
	ClientName      string
	ProductID       int64
	Quantity        int64
	ReservationDate time.Time
	ExpiryDate      time.Time
}

// Create stores an active reservation when the product has at least
// Quantity in stock right now.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Reservation, error) {
	r := &Reservation{
		ClientName:      in.ClientName,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		ReservationDate: types.DateOrToday(in.ReservationDate),
		Status:          StatusActive,
	}
	if in.ExpiryDate.IsZero() {
		r.ExpiryDate = r.ReservationDate.Add(DefaultTerm)
	} else {
		r.ExpiryDate = types.DateOf(in.ExpiryDate)
	}

	if err := r.Validate(ctx); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		reqs := []stock.Request{{ProductID: r.ProductID, Quantity: r.Quantity}}
		levels, err := s.ledger.Lock(ctx, reqs)
		if err != nil {
			return err
		}
		if err := stock.CheckAvailability(levels, reqs); err != nil {
			return err
		}
		return s.repo.Create(ctx, r)
	})
	if err != nil {
		return nil, apperror.WrapStorage("create reservation", err)
	}

	s.recorder.ReservationChanged(string(StatusActive))
	logger.Info(ctx, "reservation created",
		"id", r.ID,
		"product_id", r.ProductID,
		"quantity", r.Quantity)

	return r, nil
}

// Complete marks an active reservation as fulfilled.
func (s *Service) Complete(ctx context.Context, id int64) (*Reservation, error) {
	return s.transition(ctx, id, StatusCompleted)
}

// Cancel withdraws an active reservation.
func (s *Service) Cancel(ctx context.Context, id int64) (*Reservation, error) {
	return s.transition(ctx, id, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, id int64, to Status) (*Reservation, error) {
	var r *Reservation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Transition(ctx, id, StatusActive, to)
		if err != nil {
			return err
		}

		current, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if apperror.IsNotFound(err) {
				return apperror.NewNotFound("reservation", id)
			}
			return err
		}
		if !ok {
			return apperror.NewInvalidTransition("reservation", id, string(current.Status), string(to))
		}
		r = current
		return nil
	})
	if err != nil {
		return nil, apperror.WrapStorage("update reservation", err)
	}

	s.recorder.ReservationChanged(string(to))
	logger.Info(ctx, "reservation "+string(to), "id", id)
	return r, nil
}

// GetByID retrieves a reservation.
func (s *Service) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("reservation", id)
		}
		return nil, apperror.WrapStorage("get reservation", err)
	}
	return r, nil
}

// List returns reservations matching filter.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Reservation, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, apperror.NewValidation("unknown status").
			WithDetail("field", "status").
			WithDetail("status", string(filter.Status))
	}
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.WrapStorage("list reservations", err)
	}
	return items, nil
}
