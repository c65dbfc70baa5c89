// Package numerator provides domain contracts for document auto-numbering.
// Implementations live in pkg/numerator.
package numerator

import (
	"context"
	"time"
)

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "RC", "SL")
	Prefix string

	// IncludeYear adds year to the number
	IncludeYear bool

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// Generator generates sequential document numbers.
type Generator interface {
	// Next generates the next document number for the period.
	// Pattern: PREFIX-YEAR-XXXXX (e.g., SL-2024-00001)
	//
	// When ctx carries a transaction the counter is bumped inside it,
	// so a rolled back document does not consume a number.
	Next(ctx context.Context, cfg Config, period time.Time) (string, error)
}
