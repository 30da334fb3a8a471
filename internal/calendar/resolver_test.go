package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/staysync/backend/internal/storage/models"
)

func dr(startDay, endDay int) models.DateRange {
	return models.NewDateRange(2024, time.June, startDay, 2024, time.June, endDay)
}

func TestOverlapsSymmetry(t *testing.T) {
	cases := []struct {
		a, b models.DateRange
	}{
		{dr(1, 5), dr(3, 8)},
		{dr(1, 5), dr(5, 9)},
		{dr(1, 10), dr(3, 4)},
		{dr(1, 2), dr(20, 25)},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.a.Overlaps(tc.b), tc.b.Overlaps(tc.a),
			"Overlaps(%s, %s) must be symmetric", tc.a, tc.b)
	}
}

func TestOverlapsHalfOpenConvention(t *testing.T) {
	// Touching ranges don't overlap: same-day turnover is allowed.
	assert.False(t, dr(1, 5).Overlaps(dr(5, 9)))
	assert.False(t, dr(5, 9).Overlaps(dr(1, 5)))

	// Strict containment overlaps.
	assert.True(t, dr(1, 10).Overlaps(dr(3, 4)))

	// Partial overlap.
	assert.True(t, dr(1, 5).Overlaps(dr(4, 8)))

	// Identical ranges overlap.
	assert.True(t, dr(1, 5).Overlaps(dr(1, 5)))

	// Disjoint ranges don't.
	assert.False(t, dr(1, 5).Overlaps(dr(6, 9)))
}

func TestClassify(t *testing.T) {
	existing := []models.Reservation{
		{ID: "res-1", Range: dr(1, 5), Status: models.ReservationStatusConfirmed},
		{ID: "res-2", Range: dr(10, 15), Status: models.ReservationStatusConfirmed},
	}

	event := func(startDay, endDay int) models.CalendarEvent {
		return models.CalendarEvent{SourceLabel: "airbnb", UID: "x", Range: dr(startDay, endDay)}
	}

	// Identical dates are a duplicate regardless of source.
	assert.Equal(t, VerdictDuplicate, Classify(event(1, 5), existing))

	// Overlapping but not identical is a conflict to surface.
	assert.Equal(t, VerdictOverlap, Classify(event(12, 20), existing))
	assert.Equal(t, VerdictOverlap, Classify(event(3, 7), existing))

	// Clear dates, or touching only, are new.
	assert.Equal(t, VerdictNew, Classify(event(20, 25), existing))
	assert.Equal(t, VerdictNew, Classify(event(5, 10), existing))
}

func TestClassifyIgnoresNonConfirmedForOverlap(t *testing.T) {
	existing := []models.Reservation{
		{ID: "res-1", Range: dr(1, 5), Status: models.ReservationStatusCancelled},
	}

	event := models.CalendarEvent{UID: "x", Range: dr(3, 7)}
	assert.Equal(t, VerdictNew, Classify(event, existing))
}

func TestClassifyIdempotent(t *testing.T) {
	existing := []models.Reservation{
		{ID: "res-1", Range: dr(1, 5), Status: models.ReservationStatusConfirmed},
	}
	event := models.CalendarEvent{UID: "x", Range: dr(3, 7)}

	first := Classify(event, existing)
	second := Classify(event, existing)
	assert.Equal(t, first, second)
}

func TestClassifyEmptyExisting(t *testing.T) {
	event := models.CalendarEvent{UID: "x", Range: dr(1, 5)}
	assert.Equal(t, VerdictNew, Classify(event, nil))
}
