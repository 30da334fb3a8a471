package websocket

import (
	"log"

	"github.com/staysync/backend/internal/storage/models"
)

// EventBroadcaster handles broadcasting WebSocket events.
type EventBroadcaster struct {
	hub *Hub
}

// NewEventBroadcaster creates a new event broadcaster.
func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

// BroadcastSyncCompleted sends a calendar sync completed event.
func (b *EventBroadcaster) BroadcastSyncCompleted(report models.SyncReport) {
	payload := SyncCompletedPayload{
		PropertyID:       report.PropertyID,
		PropertyName:     report.PropertyName,
		Status:           "success",
		TotalEventsSeen:  report.TotalEventsSeen,
		Imported:         report.Imported,
		SkippedDuplicate: report.SkippedDuplicate,
		SkippedOverlap:   report.SkippedOverlap,
		SourceErrors:     len(report.SourceErrors),
	}

	if len(report.SourceErrors) > 0 {
		payload.Status = "partial"
	}

	b.broadcast(NewMessage(TypeSyncCompleted, payload))
}

// BroadcastSyncError sends a calendar sync error event.
func (b *EventBroadcaster) BroadcastSyncError(propertyID, propertyName string, err error) {
	payload := SyncErrorPayload{
		PropertyID:   propertyID,
		PropertyName: propertyName,
		Error:        "sync_error",
		Message:      err.Error(),
	}

	b.broadcast(NewMessage(TypeSyncError, payload))
}

// BroadcastBookingConflict sends a booking conflict event so operators
// see rejected booking attempts as they happen.
func (b *EventBroadcaster) BroadcastBookingConflict(propertyID string, requested models.DateRange, conflicting models.Reservation) {
	payload := BookingConflictPayload{
		PropertyID:       propertyID,
		RequestedRange:   requested.String(),
		ConflictingID:    conflicting.ID,
		ConflictingRange: conflicting.Range.String(),
		ExternalBlock:    conflicting.IsExternalBlock,
	}

	b.broadcast(NewMessage(TypeBookingConflictDetected, payload))
}

// BroadcastNotification sends a notification to all connected clients.
func (b *EventBroadcaster) BroadcastNotification(level, title, message string) {
	payload := NotificationPayload{
		Level:       level,
		Title:       title,
		Message:     message,
		Dismissible: true,
	}

	b.broadcast(NewMessage(TypeNotification, payload))
}

func (b *EventBroadcaster) broadcast(msg Message) {
	data, err := msg.JSON()
	if err != nil {
		log.Printf("Error encoding WebSocket message: %v", err)
		return
	}

	b.hub.Broadcast(data)
}
