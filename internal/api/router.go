// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/gorilla/mux"
	"github.com/staysync/backend/internal/api/handlers"
	"github.com/staysync/backend/internal/api/middleware"
	"github.com/staysync/backend/internal/booking"
	"github.com/staysync/backend/internal/calendar"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/websocket"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	DB        *storage.DB
	Store     *storage.Store
	Hub       *websocket.Hub
	Sync      *calendar.SyncService
	Export    *calendar.ExportService
	Validator *booking.Validator
	Scheduler *calendar.Scheduler
}

// NewRouter creates and configures the HTTP router with all API routes.
func NewRouter(s Services) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.ErrorRecovery)

	// Public calendar export, addressed by capability token.
	r.HandleFunc("/calendar/{token}.ics", handlers.ExportCalendar(s.Export)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Health and status endpoints
	api.HandleFunc("/health", handlers.HealthCheck(s.DB)).Methods("GET")
	api.HandleFunc("/status", handlers.Status(s.DB, s.Hub)).Methods("GET")

	// WebSocket endpoint
	api.HandleFunc("/ws", handlers.WebSocketUpgrade(s.Hub)).Methods("GET")

	// Property endpoints
	api.HandleFunc("/properties", handlers.ListProperties(s.Store)).Methods("GET")
	api.HandleFunc("/properties", handlers.CreateProperty(s.Store, s.Scheduler)).Methods("POST")
	api.HandleFunc("/properties/{id}", handlers.GetProperty(s.Store)).Methods("GET")
	api.HandleFunc("/properties/{id}", handlers.UpdateProperty(s.Store, s.Scheduler)).Methods("PUT")
	api.HandleFunc("/properties/{id}", handlers.DeleteProperty(s.Store, s.Scheduler)).Methods("DELETE")
	api.HandleFunc("/properties/{id}/export-token", handlers.RotateExportToken(s.Store)).Methods("POST")
	api.HandleFunc("/properties/{id}/sync", handlers.SyncProperty(s.Sync, s.Hub)).Methods("POST")

	// Feed source endpoints
	api.HandleFunc("/properties/{id}/feeds", handlers.ListFeedSources(s.Store)).Methods("GET")
	api.HandleFunc("/properties/{id}/feeds", handlers.SetFeedSources(s.Store)).Methods("PUT")

	// Reservation and booking endpoints
	api.HandleFunc("/properties/{id}/reservations", handlers.ListReservations(s.Store)).Methods("GET")
	api.HandleFunc("/properties/{id}/bookings", handlers.CreateBooking(s.Store, s.Validator, s.Hub)).Methods("POST")
	api.HandleFunc("/reservations/{id}", handlers.GetReservation(s.Store)).Methods("GET")
	api.HandleFunc("/reservations/{id}", handlers.CancelReservation(s.Store)).Methods("DELETE")

	return r
}
