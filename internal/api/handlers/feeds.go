package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/staysync/backend/internal/api/middleware"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/storage/models"
)

type FeedSourceRequest struct {
	SourceLabel string `json:"source_label"`
	URL         string `json:"url"`
}

// ListFeedSources returns the iCal feeds configured for a property.
func ListFeedSources(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		sources, err := store.Feeds().ListByProperty(r.Context(), propertyID)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query feed sources")
			return
		}

		if sources == nil {
			sources = []models.FeedSource{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sources)
	}
}

// SetFeedSources replaces the full set of feeds for a property.
func SetFeedSources(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		propertyID := mux.Vars(r)["id"]

		var req []FeedSourceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrBadRequest, "Invalid request body")
			return
		}

		sources := make([]models.FeedSource, 0, len(req))
		for _, src := range req {
			if src.SourceLabel == "" || src.URL == "" {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Each feed needs a source_label and url")
				return
			}
			if !strings.HasPrefix(src.URL, "http://") && !strings.HasPrefix(src.URL, "https://") {
				middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Feed URLs must be http(s)")
				return
			}
			sources = append(sources, models.FeedSource{
				SourceLabel: src.SourceLabel,
				URL:         src.URL,
			})
		}

		if err := store.Feeds().SetSources(r.Context(), propertyID, sources); err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to update feed sources")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
