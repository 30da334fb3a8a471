package models

import (
	"time"
)

// Reservation status constants
const (
	ReservationStatusConfirmed      = "confirmed"
	ReservationStatusPendingPayment = "pending_payment"
	ReservationStatusCancelled      = "cancelled"
	ReservationStatusError          = "error"
)

// Reservation is the durable unit of truth for a property's occupancy.
// Genuine bookings carry a guest count and price; external blocks are
// created by calendar sync with IsExternalBlock set, a zero price and a
// source label identifying the feed they came from.
type Reservation struct {
	ID              string    `json:"id"`
	PropertyID      string    `json:"property_id"`
	Range           DateRange `json:"range"`
	GuestCount      int       `json:"guest_count"`
	TotalPrice      float64   `json:"total_price"`
	IsExternalBlock bool      `json:"is_external_block"`
	SourceLabel     *string   `json:"source_label,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsConfirmed reports whether the reservation counts toward overlap checks.
func (r *Reservation) IsConfirmed() bool {
	return r.Status == ReservationStatusConfirmed
}

// CalendarEvent is a date-range event parsed from an external iCal feed.
// Events are transient: they exist for the duration of one sync run and
// are translated into external-block reservations before persistence.
type CalendarEvent struct {
	SourceLabel string    `json:"source_label"`
	UID         string    `json:"uid"`
	Range       DateRange `json:"range"`
	Summary     string    `json:"summary,omitempty"`
	Description string    `json:"description,omitempty"`
}
