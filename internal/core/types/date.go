package types

import (
	"time"

	"stockbook/internal/core/apperror"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf truncates t to a calendar date at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// DateOrToday returns the calendar date of t, or today when t is zero.
func DateOrToday(t time.Time) time.Time {
	if t.IsZero() {
		return Today()
	}
	return DateOf(t)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOf(t), nil
}

// DateRange is an optional inclusive range of calendar dates.
// A nil bound leaves that side open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether d falls inside the range.
func (r DateRange) Contains(d time.Time) bool {
	d = DateOf(d)
	if r.From != nil && d.Before(DateOf(*r.From)) {
		return false
	}
	if r.To != nil && d.After(DateOf(*r.To)) {
		return false
	}
	return true
}

// Validate rejects a range whose start is after its end.
func (r DateRange) Validate() error {
	if r.From != nil && r.To != nil && DateOf(*r.From).After(DateOf(*r.To)) {
		return apperror.NewValidation("period start is after period end").
			WithDetail("field", "from")
	}
	return nil
}
