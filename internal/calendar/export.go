package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/staysync/backend/internal/ical"
	"github.com/staysync/backend/internal/storage/models"
)

// Export response headers. The feed is public and changes at sync
// cadence, so an hour of shared caching is safe.
const (
	ExportContentType  = "text/calendar; charset=utf-8"
	ExportCacheControl = "public, max-age=3600"
)

// ExportReader resolves export tokens and property labels. Wrapped with
// a TTL cache in production wiring.
type ExportReader interface {
	GetPropertyIDByToken(ctx context.Context, token string) (string, error)
	GetPropertyLabel(ctx context.Context, propertyID string) (string, error)
}

// ReservationReader loads the reservations included in an export.
type ReservationReader interface {
	GetForwardReservations(ctx context.Context, propertyID string, from time.Time) ([]models.Reservation, error)
}

// ExportDocument is a rendered calendar export ready for HTTP delivery.
type ExportDocument struct {
	PropertyID   string
	Body         []byte
	ContentType  string
	CacheControl string
}

// ExportService generates the canonical iCal feed other platforms
// subscribe to.
type ExportService struct {
	reader       ExportReader
	reservations ReservationReader
	now          func() time.Time
}

// NewExportService creates an export service.
func NewExportService(reader ExportReader, reservations ReservationReader) *ExportService {
	return &ExportService{
		reader:       reader,
		reservations: reservations,
		now:          time.Now,
	}
}

// Export renders the feed for a property. Only confirmed reservations
// with a checkout of today or later are included: subscribing platforms
// need forward-looking availability, and history only bloats the feed.
func (s *ExportService) Export(ctx context.Context, propertyID string) (*ExportDocument, error) {
	label, err := s.reader.GetPropertyLabel(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	reservations, err := s.reservations.GetForwardReservations(ctx, propertyID, today)
	if err != nil {
		return nil, fmt.Errorf("loading reservations: %w", err)
	}

	body := ical.Generate(reservations, label, now)

	return &ExportDocument{
		PropertyID:   propertyID,
		Body:         []byte(body),
		ContentType:  ExportContentType,
		CacheControl: ExportCacheControl,
	}, nil
}

// ExportByToken renders the feed addressed by a public export token.
// The token is a capability: possession implies authorization, and an
// unknown token is indistinguishable from a missing property.
func (s *ExportService) ExportByToken(ctx context.Context, token string) (*ExportDocument, error) {
	propertyID, err := s.reader.GetPropertyIDByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	return s.Export(ctx, propertyID)
}
