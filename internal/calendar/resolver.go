// Package calendar implements calendar interoperability: fetching
// external availability feeds, resolving conflicts against known
// reservations, orchestrating sync runs and generating the public
// export feed.
package calendar

import (
	"github.com/staysync/backend/internal/storage/models"
)

// Verdict is the classification of a candidate feed event against the
// set of already-known reservations.
type Verdict int

const (
	// VerdictNew means the event is safe to materialize as an
	// external-block reservation.
	VerdictNew Verdict = iota
	// VerdictDuplicate means an existing reservation already covers
	// exactly the same dates; re-importing it would churn the store on
	// every sync cycle.
	VerdictDuplicate
	// VerdictOverlap means the event collides with a confirmed
	// reservation on different dates. This is a genuine scheduling
	// conflict and must be surfaced, never silently inserted.
	VerdictOverlap
)

// String returns the verdict name for logs and reports.
func (v Verdict) String() string {
	switch v {
	case VerdictNew:
		return "new"
	case VerdictDuplicate:
		return "duplicate"
	case VerdictOverlap:
		return "overlap"
	default:
		return "unknown"
	}
}

// Classify determines whether a candidate event duplicates, overlaps or
// extends the existing reservation set. Duplicate detection compares
// exact date ranges regardless of source, because platforms regenerate
// UIDs between exports. Overlap uses the shared DateRange predicate
// against confirmed reservations only.
func Classify(candidate models.CalendarEvent, existing []models.Reservation) Verdict {
	for _, res := range existing {
		if candidate.Range.Equal(res.Range) {
			return VerdictDuplicate
		}
	}

	for _, res := range existing {
		if res.IsConfirmed() && candidate.Range.Overlaps(res.Range) {
			return VerdictOverlap
		}
	}

	return VerdictNew
}
