package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysync/backend/internal/storage/models"
)

type fakeStore struct {
	reservations []models.Reservation
	err          error
}

func (f *fakeStore) GetConfirmedReservations(ctx context.Context, propertyID string) ([]models.Reservation, error) {
	return f.reservations, f.err
}

func newTestValidator(store Store, maxStayNights int) *Validator {
	v := NewValidator(store, maxStayNights)
	v.now = func() time.Time {
		return time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	}
	return v
}

func TestValidateAcceptsFreeRange(t *testing.T) {
	v := newTestValidator(&fakeStore{}, 90)

	result, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 1, 2024, time.August, 5), "")
	require.NoError(t, err)
	assert.True(t, result.OK)
	assert.Empty(t, result.Reason)
}

func TestValidateRejectsConflict(t *testing.T) {
	existing := models.Reservation{
		ID:     "res-1",
		Range:  models.NewDateRange(2024, time.August, 1, 2024, time.August, 5),
		Status: models.ReservationStatusConfirmed,
	}
	v := newTestValidator(&fakeStore{reservations: []models.Reservation{existing}}, 90)

	result, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 3, 2024, time.August, 6), "")
	require.NoError(t, err)

	assert.False(t, result.OK)
	assert.Equal(t, ReasonConflict, result.Reason)
	require.NotNil(t, result.Conflicting)
	assert.Equal(t, "res-1", result.Conflicting.ID)
}

func TestValidateAllowsBackToBackStays(t *testing.T) {
	// Checkout and check-in on the same day do not collide.
	existing := models.Reservation{
		ID:    "res-1",
		Range: models.NewDateRange(2024, time.August, 1, 2024, time.August, 5),
	}
	v := newTestValidator(&fakeStore{reservations: []models.Reservation{existing}}, 90)

	result, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 5, 2024, time.August, 8), "")
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestValidateRejectsInvalidRange(t *testing.T) {
	v := newTestValidator(&fakeStore{}, 90)

	for name, rng := range map[string]models.DateRange{
		"inverted":  models.NewDateRange(2024, time.August, 5, 2024, time.August, 1),
		"zero-stay": models.NewDateRange(2024, time.August, 5, 2024, time.August, 5),
	} {
		result, err := v.Validate(context.Background(), "prop-1", rng, "")
		require.NoError(t, err, name)
		assert.Equal(t, ReasonInvalidRange, result.Reason, name)
	}
}

func TestValidateRejectsPastCheckIn(t *testing.T) {
	v := newTestValidator(&fakeStore{}, 90)

	result, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.June, 28, 2024, time.July, 3), "")
	require.NoError(t, err)
	assert.Equal(t, ReasonStartInPast, result.Reason)

	// Check-in today is fine.
	result, err = v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.July, 1, 2024, time.July, 3), "")
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestValidateCapsStayLength(t *testing.T) {
	v := newTestValidator(&fakeStore{}, 7)

	result, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 1, 2024, time.August, 9), "")
	require.NoError(t, err)
	assert.Equal(t, ReasonStayTooLong, result.Reason)

	// Exactly at the cap passes.
	result, err = v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 1, 2024, time.August, 8), "")
	require.NoError(t, err)
	assert.True(t, result.OK)

	// Zero disables the cap entirely.
	uncapped := newTestValidator(&fakeStore{}, 0)
	result, err = uncapped.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 1, 2025, time.August, 1), "")
	require.NoError(t, err)
	assert.True(t, result.OK)
}

func TestValidateExcludesOwnReservation(t *testing.T) {
	existing := models.Reservation{
		ID:    "res-1",
		Range: models.NewDateRange(2024, time.August, 1, 2024, time.August, 5),
	}
	v := newTestValidator(&fakeStore{reservations: []models.Reservation{existing}}, 90)

	// Extending res-1 by a night conflicts with itself unless excluded.
	requested := models.NewDateRange(2024, time.August, 1, 2024, time.August, 6)

	result, err := v.Validate(context.Background(), "prop-1", requested, "res-1")
	require.NoError(t, err)
	assert.True(t, result.OK)

	result, err = v.Validate(context.Background(), "prop-1", requested, "")
	require.NoError(t, err)
	assert.Equal(t, ReasonConflict, result.Reason)
}

func TestValidateStoreError(t *testing.T) {
	v := newTestValidator(&fakeStore{err: errors.New("db closed")}, 90)

	_, err := v.Validate(context.Background(), "prop-1",
		models.NewDateRange(2024, time.August, 1, 2024, time.August, 5), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db closed")
}
