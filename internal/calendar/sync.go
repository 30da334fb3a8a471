package calendar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/staysync/backend/internal/ical"
	"github.com/staysync/backend/internal/storage/models"
)

// Configuration errors: reported to the caller, never retried and never
// counted as sync failures.
var (
	// ErrSyncDisabled is returned when the property has calendar sync
	// turned off.
	ErrSyncDisabled = errors.New("calendar sync is disabled for this property")
	// ErrNoFeedsConfigured is returned when the property has no feed
	// sources to pull from.
	ErrNoFeedsConfigured = errors.New("no feed sources configured for this property")
)

// Store is the persistence surface the sync service consumes.
type Store interface {
	GetFeedConfig(ctx context.Context, propertyID string) (*models.ExternalFeedConfig, error)
	GetPropertyLabel(ctx context.Context, propertyID string) (string, error)
	GetConfirmedReservations(ctx context.Context, propertyID string) ([]models.Reservation, error)
	InsertExternalBlocks(ctx context.Context, propertyID string, blocks []models.Reservation) error
	UpdateLastSynced(ctx context.Context, propertyID string, ts time.Time) error
}

// SyncService pulls a property's external feeds, classifies every event
// against the known reservations and materializes new availability
// blocks. One instance is shared by the scheduler and the manual-sync
// handler.
type SyncService struct {
	store   Store
	fetcher *Fetcher
	now     func() time.Time
}

// NewSyncService creates a calendar sync service. fetchTimeout bounds
// each individual feed request.
func NewSyncService(store Store, fetchTimeout time.Duration) *SyncService {
	return &SyncService{
		store:   store,
		fetcher: NewFetcher(fetchTimeout),
		now:     time.Now,
	}
}

// Sync runs one synchronization pass for a property and returns a
// report of what was imported and what was skipped.
//
// Source-level failures (timeout, non-2xx, unreadable body) degrade
// that source's contribution to zero events and are listed in the
// report; partial success is the normal case. Persistence failures fail
// the whole call: the run is safe to retry because already-inserted
// blocks reclassify as duplicates next time.
func (s *SyncService) Sync(ctx context.Context, propertyID string) (*models.SyncReport, error) {
	cfg, err := s.store.GetFeedConfig(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading feed config: %w", err)
	}

	if !cfg.SyncEnabled {
		return nil, ErrSyncDisabled
	}
	if len(cfg.Sources) == 0 {
		return nil, ErrNoFeedsConfigured
	}

	label, err := s.store.GetPropertyLabel(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading property: %w", err)
	}

	report := &models.SyncReport{
		PropertyID:   propertyID,
		PropertyName: label,
		SyncedAt:     s.now().UTC(),
	}

	// Fetch every feed concurrently, then parse the successful ones,
	// tagging each event with the feed it came from.
	var candidates []models.CalendarEvent
	for _, result := range s.fetcher.FetchAll(ctx, cfg.Sources) {
		if result.Err != nil {
			log.Printf("Feed fetch failed for %s (%s): %v", propertyID, result.SourceLabel, result.Err)
			report.SourceErrors = append(report.SourceErrors, models.SourceError{
				SourceLabel: result.SourceLabel,
				URL:         result.URL,
				Message:     result.Err.Error(),
			})
			continue
		}

		events, err := ical.Parse(bytes.NewReader(result.Body))
		if err != nil {
			report.SourceErrors = append(report.SourceErrors, models.SourceError{
				SourceLabel: result.SourceLabel,
				URL:         result.URL,
				Message:     err.Error(),
			})
			continue
		}

		for i := range events {
			events[i].SourceLabel = result.SourceLabel
		}
		candidates = append(candidates, events...)
	}

	// The classification snapshot is loaded once; writes that land
	// mid-run are caught by the next scheduled run or by the booking
	// validator, which always reads fresh.
	existing, err := s.store.GetConfirmedReservations(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("loading reservations: %w", err)
	}

	var newBlocks []models.Reservation
	for _, event := range candidates {
		report.TotalEventsSeen++

		switch Classify(event, existing) {
		case VerdictDuplicate:
			report.SkippedDuplicate++
		case VerdictOverlap:
			log.Printf("Feed event %s from %s overlaps a confirmed reservation for property %s",
				event.Range, event.SourceLabel, propertyID)
			report.SkippedOverlap++
		case VerdictNew:
			sourceLabel := event.SourceLabel
			block := models.Reservation{
				PropertyID:      propertyID,
				Range:           event.Range,
				GuestCount:      1,
				TotalPrice:      0,
				IsExternalBlock: true,
				SourceLabel:     &sourceLabel,
				Status:          models.ReservationStatusConfirmed,
			}
			newBlocks = append(newBlocks, block)

			// Grow the snapshot so the same stay appearing in two
			// feeds imports once, not twice.
			existing = append(existing, block)
			report.Imported++
		}
	}

	if err := s.store.InsertExternalBlocks(ctx, propertyID, newBlocks); err != nil {
		return nil, fmt.Errorf("inserting external blocks: %w", err)
	}

	// Updated even on zero imports so staleness stays observable.
	if err := s.store.UpdateLastSynced(ctx, propertyID, report.SyncedAt); err != nil {
		return nil, fmt.Errorf("updating last synced: %w", err)
	}

	return report, nil
}
