// Package dto provides Data Transfer Objects for API requests/responses.
package dto

import (
	"time"

	"stockbook/internal/core/apperror"
	"stockbook/internal/core/types"
)

// ListResponse wraps list results. Lists are never paginated.
type ListResponse struct {
	Items any `json:"items"`
	Count int `json:"count"`
}

// NewListResponse builds a ListResponse, rendering nil slices as [].
func NewListResponse[T any](items []T) ListResponse {
	if items == nil {
		items = []T{}
	}
	return ListResponse{Items: items, Count: len(items)}
}

// IDResponse for operations that only report the new row.
type IDResponse struct {
	ID int64 `json:"id"`
}

// ErrorResponse is the body written by the error middleware.
type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// PeriodQuery is an optional inclusive date range in query parameters.
type PeriodQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// Range parses the bounds as YYYY-MM-DD dates.
func (q PeriodQuery) Range() (types.DateRange, error) {
	var r types.DateRange
	var err error
	if r.From, err = optionalDate("from", q.From); err != nil {
		return r, err
	}
	if r.To, err = optionalDate("to", q.To); err != nil {
		return r, err
	}
	return r, r.Validate()
}

// parseDate accepts an empty string as "not given".
func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return time.Time{}, apperror.NewValidation("invalid date, expected YYYY-MM-DD").
			WithDetail("field", field).
			WithDetail("value", value)
	}
	return d, nil
}

func optionalDate(field, value string) (*time.Time, error) {
	d, err := parseDate(field, value)
	if err != nil || d.IsZero() {
		return nil, err
	}
	return &d, nil
}
