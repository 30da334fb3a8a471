package models

import (
	"time"
)

// Property represents a bookable rental property. The export token is a
// capability: possession of it grants read access to the property's
// public calendar feed, so it is random and never the row ID.
type Property struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	ExportToken     string     `json:"export_token"`
	SyncEnabled     bool       `json:"sync_enabled"`
	SyncIntervalMin int        `json:"sync_interval_min"`
	LastSyncedAt    *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FeedSource is one external iCal feed configured for a property.
type FeedSource struct {
	ID          string    `json:"id"`
	PropertyID  string    `json:"property_id"`
	SourceLabel string    `json:"source_label"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExternalFeedConfig aggregates everything the sync orchestrator needs
// to know about a property's feed setup.
type ExternalFeedConfig struct {
	PropertyID      string       `json:"property_id"`
	SyncEnabled     bool         `json:"sync_enabled"`
	SyncIntervalMin int          `json:"sync_interval_min"`
	LastSyncedAt    *time.Time   `json:"last_synced_at,omitempty"`
	ExportToken     string       `json:"export_token"`
	Sources         []FeedSource `json:"sources"`
}
