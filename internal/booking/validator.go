// Package booking implements availability validation for the booking
// flow. It shares the overlap predicate with calendar sync but runs
// synchronously at request time, gating reservation writes.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// Rejection reason codes returned in a ValidationResult.
const (
	ReasonInvalidRange = "invalid_range"
	ReasonStartInPast  = "start_in_past"
	ReasonStayTooLong  = "stay_too_long"
	ReasonConflict     = "conflict"
)

// Store is the persistence surface the validator consumes.
type Store interface {
	GetConfirmedReservations(ctx context.Context, propertyID string) ([]models.Reservation, error)
}

// ValidationResult is the structured outcome of an availability check.
// On rejection, Reason holds a machine-readable code and Message a
// user-facing explanation; Conflicting names the blocking reservation
// when the reason is a date conflict.
type ValidationResult struct {
	OK          bool                `json:"ok"`
	Reason      string              `json:"reason,omitempty"`
	Message     string              `json:"message,omitempty"`
	Conflicting *models.Reservation `json:"conflicting_reservation,omitempty"`
}

// Validator checks requested booking ranges against confirmed
// reservations. It always reads fresh data: this check gates a write,
// and staleness here directly causes double-bookings.
type Validator struct {
	store         Store
	maxStayNights int
	now           func() time.Time
}

// NewValidator creates a booking validator. maxStayNights caps the
// length of a single stay; zero or negative disables the cap.
func NewValidator(store Store, maxStayNights int) *Validator {
	return &Validator{
		store:         store,
		maxStayNights: maxStayNights,
		now:           time.Now,
	}
}

// Validate checks whether the requested range can be booked for the
// property. excludeReservationID skips one reservation from the overlap
// scan, for edits of an existing booking. Simple range guards run
// first; they are not overlap logic, just preconditions in front of it.
func (v *Validator) Validate(ctx context.Context, propertyID string, requested models.DateRange, excludeReservationID string) (ValidationResult, error) {
	if !requested.IsValid() {
		return ValidationResult{
			Reason:  ReasonInvalidRange,
			Message: "check-out date must be after check-in date",
		}, nil
	}

	now := v.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if requested.Start.Before(today) {
		return ValidationResult{
			Reason:  ReasonStartInPast,
			Message: "check-in date cannot be in the past",
		}, nil
	}

	if v.maxStayNights > 0 && requested.Nights() > v.maxStayNights {
		return ValidationResult{
			Reason:  ReasonStayTooLong,
			Message: fmt.Sprintf("stays are limited to %d nights", v.maxStayNights),
		}, nil
	}

	existing, err := v.store.GetConfirmedReservations(ctx, propertyID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("loading reservations: %w", err)
	}

	for i := range existing {
		if existing[i].ID == excludeReservationID {
			continue
		}
		if requested.Overlaps(existing[i].Range) {
			conflicting := existing[i]
			return ValidationResult{
				Reason:      ReasonConflict,
				Message:     fmt.Sprintf("dates conflict with an existing reservation (%s)", conflicting.Range),
				Conflicting: &conflicting,
			}, nil
		}
	}

	return ValidationResult{OK: true}, nil
}
