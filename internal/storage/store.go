package storage

import (
	"context"
	"errors"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// ErrPropertyNotFound is returned by Store lookups for unknown IDs or tokens.
var ErrPropertyNotFound = errors.New("property not found")

// Store is the persistence facade consumed by the calendar sync, export
// and booking-validation services. It composes the individual
// repositories behind the narrow read/write surface those services need.
type Store struct {
	properties   *PropertyRepository
	feeds        *FeedSourceRepository
	reservations *ReservationRepository
}

// NewStore creates a store facade over the given database.
func NewStore(db *DB) *Store {
	return &Store{
		properties:   NewPropertyRepository(db),
		feeds:        NewFeedSourceRepository(db),
		reservations: NewReservationRepository(db),
	}
}

// Properties exposes the underlying property repository for CRUD handlers.
func (s *Store) Properties() *PropertyRepository {
	return s.properties
}

// Feeds exposes the underlying feed source repository for CRUD handlers.
func (s *Store) Feeds() *FeedSourceRepository {
	return s.feeds
}

// Reservations exposes the underlying reservation repository for CRUD handlers.
func (s *Store) Reservations() *ReservationRepository {
	return s.reservations
}

// GetFeedConfig loads a property's sync settings together with its
// configured feed sources.
func (s *Store) GetFeedConfig(ctx context.Context, propertyID string) (*models.ExternalFeedConfig, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrPropertyNotFound
	}

	sources, err := s.feeds.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	return &models.ExternalFeedConfig{
		PropertyID:      p.ID,
		SyncEnabled:     p.SyncEnabled,
		SyncIntervalMin: p.SyncIntervalMin,
		LastSyncedAt:    p.LastSyncedAt,
		ExportToken:     p.ExportToken,
		Sources:         sources,
	}, nil
}

// GetPropertyLabel returns the display name used as the exported
// calendar's name.
func (s *Store) GetPropertyLabel(ctx context.Context, propertyID string) (string, error) {
	p, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrPropertyNotFound
	}
	return p.Name, nil
}

// GetPropertyIDByToken resolves a public export token to a property ID.
func (s *Store) GetPropertyIDByToken(ctx context.Context, token string) (string, error) {
	p, err := s.properties.GetByExportToken(ctx, token)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", ErrPropertyNotFound
	}
	return p.ID, nil
}

// GetConfirmedReservations returns the confirmed reservations for a property.
func (s *Store) GetConfirmedReservations(ctx context.Context, propertyID string) ([]models.Reservation, error) {
	return s.reservations.ListConfirmed(ctx, propertyID)
}

// GetForwardReservations returns confirmed reservations whose checkout
// is on or after the given date.
func (s *Store) GetForwardReservations(ctx context.Context, propertyID string, from time.Time) ([]models.Reservation, error) {
	return s.reservations.ListConfirmedEndingOnOrAfter(ctx, propertyID, from)
}

// InsertExternalBlocks persists a batch of external-block reservations.
func (s *Store) InsertExternalBlocks(ctx context.Context, propertyID string, blocks []models.Reservation) error {
	return s.reservations.InsertExternalBlocks(ctx, propertyID, blocks)
}

// UpdateLastSynced records when a property's calendars were last synced.
func (s *Store) UpdateLastSynced(ctx context.Context, propertyID string, ts time.Time) error {
	return s.properties.UpdateLastSynced(ctx, propertyID, ts)
}
