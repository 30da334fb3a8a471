package websocket

import (
	"encoding/json"
	"time"
)

// MessageType identifies the type of WebSocket message.
type MessageType string

const (
	// Server -> Client event types
	TypeSyncCompleted           MessageType = "calendar.sync_completed"
	TypeSyncError               MessageType = "calendar.sync_error"
	TypeBookingConflictDetected MessageType = "booking.conflict_detected"
	TypeNotification            MessageType = "notification"

	// Client -> Server command types
	TypePing MessageType = "ping"

	// Server -> Client response types
	TypePong MessageType = "pong"
)

// Message represents a WebSocket message envelope.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(msgType MessageType, payload any) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// JSON serializes the message to JSON bytes.
func (m Message) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// SyncCompletedPayload is the payload for calendar.sync_completed events.
type SyncCompletedPayload struct {
	PropertyID       string `json:"property_id"`
	PropertyName     string `json:"property_name"`
	Status           string `json:"status"`
	TotalEventsSeen  int    `json:"total_events_seen"`
	Imported         int    `json:"imported"`
	SkippedDuplicate int    `json:"skipped_duplicate"`
	SkippedOverlap   int    `json:"skipped_overlap"`
	SourceErrors     int    `json:"source_errors"`
}

// SyncErrorPayload is the payload for calendar.sync_error events.
type SyncErrorPayload struct {
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	Error        string `json:"error"`
	Message      string `json:"message"`
}

// BookingConflictPayload is the payload for booking.conflict_detected
// events, raised when a booking request collides with an existing
// reservation.
type BookingConflictPayload struct {
	PropertyID       string `json:"property_id"`
	RequestedRange   string `json:"requested_range"`
	ConflictingID    string `json:"conflicting_reservation_id"`
	ConflictingRange string `json:"conflicting_range"`
	ExternalBlock    bool   `json:"external_block"`
}

// NotificationPayload is the payload for notification events.
type NotificationPayload struct {
	Level       string `json:"level"` // info, warning, error, success
	Title       string `json:"title"`
	Message     string `json:"message"`
	Dismissible bool   `json:"dismissible"`
}
