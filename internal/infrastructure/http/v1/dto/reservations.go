package dto

import (
	"stockbook/internal/domain/reservations"
)

// CreateReservationRequest holds goods for a client.
type CreateReservationRequest struct {
	ClientName      string `json:"clientName"`
	ProductID       int64  `json:"productId"`
	Quantity        int64  `json:"quantity"`
	ReservationDate string `json:"reservationDate"`
	ExpiryDate      string `json:"expiryDate"`
}

// ToInput converts the request for reservations.Service.Create.
func (r CreateReservationRequest) ToInput() (reservations.CreateInput, error) {
	reserved, err := parseDate("reservationDate", r.ReservationDate)
	if err != nil {
		return reservations.CreateInput{}, err
	}
	expiry, err := parseDate("expiryDate", r.ExpiryDate)
	if err != nil {
		return reservations.CreateInput{}, err
	}
	return reservations.CreateInput{
		ClientName:      r.ClientName,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		ReservationDate: reserved,
		ExpiryDate:      expiry,
	}, nil
}

// ReservationListQuery filters reservations.
type ReservationListQuery struct {
	Status    string `form:"status"`
	ProductID int64  `form:"productId"`
}

// ToFilter converts the query for reservations.Service.List.
func (q ReservationListQuery) ToFilter() reservations.ListFilter {
	return reservations.ListFilter{
		Status:    reservations.Status(q.Status),
		ProductID: q.ProductID,
	}
}
