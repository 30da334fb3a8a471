// Package handlers provides HTTP request handlers for the API endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/staysync/backend/internal/api/middleware"
	"github.com/staysync/backend/internal/calendar"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/storage/models"
	"github.com/staysync/backend/internal/websocket"
)

type PropertyRequest struct {
	Name            string `json:"name"`
	SyncEnabled     bool   `json:"sync_enabled"`
	SyncIntervalMin int    `json:"sync_interval_min"`
}

// ListProperties returns all properties.
func ListProperties(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		properties, err := store.Properties().List(r.Context())
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query properties")
			return
		}

		if properties == nil {
			properties = []models.Property{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(properties)
	}
}

// CreateProperty adds a new property and assigns its export token.
func CreateProperty(store *storage.Store, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		if req.Name == "" {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Name is required")
			return
		}

		p := &models.Property{
			Name:            req.Name,
			SyncEnabled:     req.SyncEnabled,
			SyncIntervalMin: req.SyncIntervalMin,
		}

		if err := store.Properties().Create(r.Context(), p); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to create property")
			return
		}

		if scheduler != nil && p.SyncEnabled {
			scheduler.ScheduleProperty(*p)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	}
}

// GetProperty returns a single property by ID.
func GetProperty(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		p, err := store.Properties().GetByID(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query property")
			return
		}
		if p == nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(p)
	}
}

// UpdateProperty updates a property's name and sync settings.
func UpdateProperty(store *storage.Store, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		var req PropertyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		p := &models.Property{
			ID:              id,
			Name:            req.Name,
			SyncEnabled:     req.SyncEnabled,
			SyncIntervalMin: req.SyncIntervalMin,
		}

		if err := store.Properties().Update(r.Context(), p); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		if scheduler != nil {
			scheduler.ScheduleProperty(*p)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteProperty removes a property and everything attached to it.
func DeleteProperty(store *storage.Store, scheduler *calendar.Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		if err := store.Properties().Delete(r.Context(), id); err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		if scheduler != nil {
			scheduler.UnscheduleProperty(id)
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RotateExportToken replaces a property's export token. Previously
// shared export URLs stop working.
func RotateExportToken(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		token, err := store.Properties().RotateExportToken(r.Context(), id)
		if err != nil {
			middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"export_token": token})
	}
}

// SyncProperty runs a calendar sync for the property and returns the
// report. Partial feed failures still return 200 with the errors
// listed; only configuration and persistence problems are API errors.
func SyncProperty(syncService *calendar.SyncService, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]

		report, err := syncService.Sync(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, calendar.ErrSyncDisabled), errors.Is(err, calendar.ErrNoFeedsConfigured):
				middleware.WriteError(w, http.StatusConflict, middleware.ErrNotConfigured, err.Error())
			case errors.Is(err, storage.ErrPropertyNotFound):
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Property not found")
			default:
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Calendar sync failed")
			}
			return
		}

		if hub != nil {
			websocket.NewEventBroadcaster(hub).BroadcastSyncCompleted(*report)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}
