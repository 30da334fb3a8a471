package calendar

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/staysync/backend/internal/storage"
	"github.com/staysync/backend/internal/storage/models"
	"github.com/staysync/backend/internal/websocket"
)

// Scheduler manages periodic calendar sync jobs, one per sync-enabled
// property. The sync service itself owns no clock; this is the only
// component that does.
type Scheduler struct {
	cron        *cron.Cron
	syncService *SyncService
	properties  *storage.PropertyRepository
	broadcaster *websocket.EventBroadcaster

	jobs   map[string]cron.EntryID
	jobsMu sync.RWMutex

	// Used when a property doesn't specify its own interval.
	defaultInterval time.Duration
}

// NewScheduler creates a new calendar sync scheduler.
func NewScheduler(
	syncService *SyncService,
	properties *storage.PropertyRepository,
	hub *websocket.Hub,
	defaultIntervalMin int,
) *Scheduler {
	if defaultIntervalMin <= 0 {
		defaultIntervalMin = 180
	}

	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &Scheduler{
		cron:            cron.New(),
		syncService:     syncService,
		properties:      properties,
		broadcaster:     broadcaster,
		jobs:            make(map[string]cron.EntryID),
		defaultInterval: time.Duration(defaultIntervalMin) * time.Minute,
	}
}

// Start begins the scheduler and loads all sync-enabled properties.
func (s *Scheduler) Start(ctx context.Context) error {
	log.Println("Starting calendar sync scheduler...")

	properties, err := s.properties.ListSyncEnabled(ctx)
	if err != nil {
		return err
	}

	for _, p := range properties {
		s.ScheduleProperty(p)
	}

	// Catch newly added or reconfigured properties.
	s.cron.AddFunc("@every 5m", func() {
		s.refreshSchedules(context.Background())
	})

	s.cron.Start()
	log.Printf("Calendar scheduler started with %d properties", len(properties))

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	log.Println("Stopping calendar sync scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Calendar scheduler stopped")
}

// ScheduleProperty adds or updates a property's sync schedule.
func (s *Scheduler) ScheduleProperty(p models.Property) {
	if !p.SyncEnabled {
		s.UnscheduleProperty(p.ID)
		return
	}

	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if existingID, exists := s.jobs[p.ID]; exists {
		s.cron.Remove(existingID)
		delete(s.jobs, p.ID)
	}

	interval := time.Duration(p.SyncIntervalMin) * time.Minute
	if interval < time.Minute {
		interval = s.defaultInterval
	}

	propertyID, propertyName := p.ID, p.Name
	entryID, err := s.cron.AddFunc("@every "+interval.String(), func() {
		s.syncProperty(propertyID, propertyName)
	})

	if err != nil {
		log.Printf("Failed to schedule property %s: %v", p.ID, err)
		return
	}

	s.jobs[p.ID] = entryID
	log.Printf("Scheduled property %s (%s) every %s", p.ID, p.Name, interval)
}

// UnscheduleProperty removes a property from the sync schedule.
func (s *Scheduler) UnscheduleProperty(propertyID string) {
	s.jobsMu.Lock()
	defer s.jobsMu.Unlock()

	if entryID, exists := s.jobs[propertyID]; exists {
		s.cron.Remove(entryID)
		delete(s.jobs, propertyID)
		log.Printf("Unscheduled property %s", propertyID)
	}
}

// TriggerSync manually triggers an immediate sync for a property.
func (s *Scheduler) TriggerSync(propertyID string) {
	go func() {
		p, err := s.properties.GetByID(context.Background(), propertyID)
		if err != nil || p == nil {
			log.Printf("Property not found for sync: %s", propertyID)
			return
		}
		s.syncProperty(p.ID, p.Name)
	}()
}

// syncProperty performs the actual sync run.
func (s *Scheduler) syncProperty(propertyID, propertyName string) {
	ctx := context.Background()
	log.Printf("Syncing calendars for property: %s (%s)", propertyID, propertyName)

	report, err := s.syncService.Sync(ctx, propertyID)
	if err != nil {
		// A property that lost its feeds or disabled sync between
		// schedule refreshes is a configuration state, not a failure.
		if errors.Is(err, ErrSyncDisabled) || errors.Is(err, ErrNoFeedsConfigured) {
			log.Printf("Skipping sync for property %s: %v", propertyID, err)
			return
		}

		log.Printf("Calendar sync failed for property %s: %v", propertyID, err)
		if s.broadcaster != nil {
			s.broadcaster.BroadcastSyncError(propertyID, propertyName, err)
		}
		return
	}

	log.Printf("Calendar sync completed for property %s: %d events seen, %d imported, %d duplicates, %d overlaps, %d source errors",
		propertyID, report.TotalEventsSeen, report.Imported,
		report.SkippedDuplicate, report.SkippedOverlap, len(report.SourceErrors))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastSyncCompleted(*report)
	}
}

// refreshSchedules reloads property schedules from the database.
func (s *Scheduler) refreshSchedules(ctx context.Context) {
	properties, err := s.properties.ListSyncEnabled(ctx)
	if err != nil {
		log.Printf("Failed to refresh sync schedules: %v", err)
		return
	}

	currentIDs := make(map[string]bool)
	for _, p := range properties {
		currentIDs[p.ID] = true
		s.ScheduleProperty(p)
	}

	// Drop jobs for properties that no longer exist or disabled sync.
	s.jobsMu.Lock()
	for propertyID := range s.jobs {
		if !currentIDs[propertyID] {
			s.cron.Remove(s.jobs[propertyID])
			delete(s.jobs, propertyID)
			log.Printf("Removed schedule for property %s (sync no longer enabled)", propertyID)
		}
	}
	s.jobsMu.Unlock()
}

// GetNextRun returns the next scheduled run time for a property.
func (s *Scheduler) GetNextRun(propertyID string) *time.Time {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	if entryID, exists := s.jobs[propertyID]; exists {
		entry := s.cron.Entry(entryID)
		if !entry.Next.IsZero() {
			return &entry.Next
		}
	}
	return nil
}
