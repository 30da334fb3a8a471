package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/staysync/backend/internal/api/middleware"
	"github.com/staysync/backend/internal/booking"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/storage/models"
	"github.com/staysync/backend/internal/websocket"
)

type BookingRequest struct {
	StartDate  string  `json:"start_date"` // 2006-01-02
	EndDate    string  `json:"end_date"`
	GuestCount int     `json:"guest_count"`
	TotalPrice float64 `json:"total_price"`
}

// parseRange converts request date strings into a DateRange. A failed
// parse yields a zero range, which the validator rejects.
func (r BookingRequest) parseRange() models.DateRange {
	start, err1 := time.ParseInLocation("2006-01-02", r.StartDate, time.UTC)
	end, err2 := time.ParseInLocation("2006-01-02", r.EndDate, time.UTC)
	if err1 != nil || err2 != nil {
		return models.DateRange{}
	}
	return models.DateRange{Start: start, End: end}
}

// ListReservations returns all reservations for a property, external
// blocks included.
func ListReservations(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		reservations, err := store.Reservations().ListByProperty(r.Context(), propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query reservations")
			return
		}

		if reservations == nil {
			reservations = []models.Reservation{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(reservations)
	}
}

// CreateBooking validates availability and creates a confirmed
// reservation. A date conflict returns 409 naming the conflicting
// reservation, so the booking form can tell the guest which dates are
// taken.
func CreateBooking(store *storage.Store, validator *booking.Validator, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		requested := req.parseRange()

		result, err := validator.Validate(r.Context(), propertyID, requested, "")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Availability check failed")
			return
		}

		if !result.OK {
			if result.Reason == booking.ReasonConflict {
				if hub != nil && result.Conflicting != nil {
					websocket.NewEventBroadcaster(hub).BroadcastBookingConflict(propertyID, requested, *result.Conflicting)
				}
				middleware.WriteErrorWithDetails(w, http.StatusConflict, middleware.ErrConflict, result.Message, result)
				return
			}
			middleware.WriteErrorWithDetails(w, http.StatusBadRequest, middleware.ErrValidation, result.Message, result)
			return
		}

		guestCount := req.GuestCount
		if guestCount < 1 {
			guestCount = 1
		}

		res := &models.Reservation{
			PropertyID: propertyID,
			Range:      requested,
			GuestCount: guestCount,
			TotalPrice: req.TotalPrice,
			Status:     models.ReservationStatusConfirmed,
		}

		if err := store.Reservations().Create(r.Context(), res); err != nil {
			// The partial unique index may reject a write that raced
			// the validator; surface it as the conflict it is.
			middleware.WriteError(w, http.StatusConflict, middleware.ErrConflict, "Dates were booked concurrently, please retry")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(res)
	}
}

// GetReservation returns a single reservation by ID.
func GetReservation(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		res, err := store.Reservations().GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query reservation")
			return
		}
		if res == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Reservation not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(res)
	}
}

// CancelReservation marks a reservation cancelled. Cancelled rows stop
// counting toward overlap checks, freeing the dates.
func CancelReservation(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := store.Reservations().UpdateStatus(r.Context(), id, models.ReservationStatusCancelled); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Reservation not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
