package models

import (
	"time"
)

// SourceError records a non-fatal fetch or parse failure for a single
// feed source during a sync run.
type SourceError struct {
	SourceLabel string `json:"source_label"`
	URL         string `json:"url"`
	Message     string `json:"message"`
}

// SyncReport contains the results of one calendar sync run for a
// property. Imported + SkippedDuplicate + SkippedOverlap always equals
// TotalEventsSeen; source errors are reported individually and do not
// fail the run.
type SyncReport struct {
	PropertyID       string        `json:"property_id"`
	PropertyName     string        `json:"property_name"`
	TotalEventsSeen  int           `json:"total_events_seen"`
	Imported         int           `json:"imported"`
	SkippedDuplicate int           `json:"skipped_duplicate"`
	SkippedOverlap   int           `json:"skipped_overlap"`
	SourceErrors     []SourceError `json:"source_errors,omitempty"`
	SyncedAt         time.Time     `json:"synced_at"`
}
