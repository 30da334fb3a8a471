// Package models contains the domain models for the application.
package models

import (
	"fmt"
	"time"
)

// DateRange is a half-open range of calendar dates [Start, End).
// Start and End are whole dates (midnight UTC); End is the checkout
// date and is exclusive, per RFC 5545 all-day DTEND semantics.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateRange builds a range from year/month/day pairs. Mostly a test
// convenience, but handlers use it after parsing request dates too.
func NewDateRange(startY int, startM time.Month, startD, endY int, endM time.Month, endD int) DateRange {
	return DateRange{
		Start: time.Date(startY, startM, startD, 0, 0, 0, 0, time.UTC),
		End:   time.Date(endY, endM, endD, 0, 0, 0, 0, time.UTC),
	}
}

// IsValid reports whether the range contains at least one night.
func (r DateRange) IsValid() bool {
	return r.End.After(r.Start)
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Overlaps reports whether two half-open ranges share at least one night.
// Touching ranges (one's end equals the other's start) do not overlap,
// which allows same-day checkout and check-in. This is the single
// authoritative overlap predicate; callers must not reimplement it.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Equal reports whether both ranges cover exactly the same dates.
func (r DateRange) Equal(other DateRange) bool {
	return r.Start.Equal(other.Start) && r.End.Equal(other.End)
}

// String formats the range as "2006-01-02 to 2006-01-02" for log lines
// and user-facing conflict messages.
func (r DateRange) String() string {
	return fmt.Sprintf("%s to %s", r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
}
