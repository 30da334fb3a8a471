package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/staysync/backend/internal/storage/models"
)

// FeedSourceRepository provides data access for per-property iCal feed sources.
type FeedSourceRepository struct {
	BaseRepository
}

// NewFeedSourceRepository creates a new feed source repository.
func NewFeedSourceRepository(db *DB) *FeedSourceRepository {
	return &FeedSourceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// Create inserts a new feed source for a property.
func (r *FeedSourceRepository) Create(ctx context.Context, src *models.FeedSource) error {
	src.ID = GenerateID()
	src.CreatedAt = r.Now()

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO feed_sources (id, property_id, source_label, url, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, src.ID, src.PropertyID, src.SourceLabel, src.URL, src.CreatedAt)

	if err != nil {
		return fmt.Errorf("inserting feed source: %w", err)
	}

	return nil
}

// ListByProperty retrieves all feed sources configured for a property.
func (r *FeedSourceRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.FeedSource, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT id, property_id, source_label, url, created_at
		FROM feed_sources WHERE property_id = ?
		ORDER BY source_label
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying feed sources: %w", err)
	}
	defer rows.Close()

	var sources []models.FeedSource
	for rows.Next() {
		var src models.FeedSource
		if err := rows.Scan(&src.ID, &src.PropertyID, &src.SourceLabel, &src.URL, &src.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning feed source: %w", err)
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

// SetSources replaces all feed sources for a property in one transaction.
func (r *FeedSourceRepository) SetSources(ctx context.Context, propertyID string, sources []models.FeedSource) error {
	now := r.Now()

	return r.Transaction(func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM feed_sources WHERE property_id = ?", propertyID)
		if err != nil {
			return fmt.Errorf("deleting feed sources: %w", err)
		}

		for i := range sources {
			sources[i].ID = GenerateID()
			sources[i].PropertyID = propertyID
			sources[i].CreatedAt = now

			_, err := tx.ExecContext(ctx, `
				INSERT INTO feed_sources (id, property_id, source_label, url, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, sources[i].ID, propertyID, sources[i].SourceLabel, sources[i].URL, now)
			if err != nil {
				return fmt.Errorf("inserting feed source: %w", err)
			}
		}

		return nil
	})
}

// Delete removes a feed source by ID.
func (r *FeedSourceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM feed_sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting feed source: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("feed source not found: %s", id)
	}

	return nil
}
