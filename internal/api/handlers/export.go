package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/staysync/backend/internal/api/middleware"
	"github.com/staysync/backend/internal/calendar"
	"github.com/staysync/backend/internal/storage"
)

// ExportCalendar serves a property's public iCal feed, addressed by its
// export token. The endpoint is unauthenticated: the token itself is
// the capability.
func ExportCalendar(exportService *calendar.ExportService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := mux.Vars(r)["token"]

		doc, err := exportService.ExportByToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, storage.ErrPropertyNotFound) {
				middleware.WriteError(w, http.StatusNotFound, middleware.ErrNotFound, "Calendar not found")
				return
			}
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to generate calendar")
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Cache-Control", doc.CacheControl)
		w.Write(doc.Body)
	}
}
