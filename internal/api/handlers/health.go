package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/websocket"
)

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status      string `json:"status"`
	DBConnected bool   `json:"db_connected"`
}

// HealthCheck returns a handler that performs a health check.
func HealthCheck(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dbConnected := db.Ping() == nil

		status := "healthy"
		if !dbConnected {
			status = "degraded"
		}

		response := HealthResponse{
			Status:      status,
			DBConnected: dbConnected,
		}

		w.Header().Set("Content-Type", "application/json")
		if status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(response)
	}
}

// StatusResponse represents the system status response.
type StatusResponse struct {
	PropertiesCount       int    `json:"properties_count"`
	SyncEnabledCount      int    `json:"sync_enabled_count"`
	ConfirmedReservations int    `json:"confirmed_reservations"`
	ExternalBlocks        int    `json:"external_blocks"`
	ConnectedClients      int    `json:"connected_clients"`
	LastSyncedAt          string `json:"last_synced_at,omitempty"`
}

// Status returns a handler that provides system status information.
func Status(db *storage.DB, hub *websocket.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var response StatusResponse

		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&response.PropertiesCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties WHERE sync_enabled = 1").Scan(&response.SyncEnabledCount)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reservations WHERE status = 'confirmed'").Scan(&response.ConfirmedReservations)
		db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reservations WHERE status = 'confirmed' AND is_external_block = 1").Scan(&response.ExternalBlocks)

		var lastSynced *string
		db.QueryRowContext(ctx, "SELECT MAX(last_synced_at) FROM properties").Scan(&lastSynced)
		if lastSynced != nil {
			response.LastSyncedAt = *lastSynced
		}

		if hub != nil {
			response.ConnectedClients = hub.ClientCount()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}
}
