package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// PropertyRepository provides data access for rental properties.
type PropertyRepository struct {
	BaseRepository
}

// NewPropertyRepository creates a new property repository.
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const propertyColumns = `id, name, export_token, sync_enabled, sync_interval_min,
       last_synced_at, created_at, updated_at`

// Create inserts a new property, assigning its ID and export token.
func (r *PropertyRepository) Create(ctx context.Context, p *models.Property) error {
	p.ID = GenerateID()
	p.ExportToken = GenerateExportToken()
	p.CreatedAt = r.Now()
	p.UpdatedAt = p.CreatedAt
	if p.SyncIntervalMin <= 0 {
		p.SyncIntervalMin = 180
	}

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO properties (
			id, name, export_token, sync_enabled, sync_interval_min, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		p.ID, p.Name, p.ExportToken, p.SyncEnabled, p.SyncIntervalMin,
		p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting property: %w", err)
	}

	return nil
}

// GetByID retrieves a property by its ID. Returns nil when not found.
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	row := r.DB().QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	return r.scanProperty(row)
}

// GetByExportToken resolves a public export token to its property.
// Returns nil when the token does not match any property.
func (r *PropertyRepository) GetByExportToken(ctx context.Context, token string) (*models.Property, error) {
	row := r.DB().QueryRowContext(ctx,
		`SELECT `+propertyColumns+` FROM properties WHERE export_token = ?`, token)
	return r.scanProperty(row)
}

func (r *PropertyRepository) scanProperty(row *sql.Row) (*models.Property, error) {
	p := &models.Property{}
	err := row.Scan(
		&p.ID, &p.Name, &p.ExportToken, &p.SyncEnabled, &p.SyncIntervalMin,
		&p.LastSyncedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying property: %w", err)
	}
	return p, nil
}

// List retrieves all properties ordered by name.
func (r *PropertyRepository) List(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx,
		`SELECT `+propertyColumns+` FROM properties ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying properties: %w", err)
	}
	defer rows.Close()

	return r.collectProperties(rows)
}

// ListSyncEnabled retrieves all properties with calendar sync turned on,
// least-recently-synced first so the scheduler catches up stale ones.
func (r *PropertyRepository) ListSyncEnabled(ctx context.Context) ([]models.Property, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+propertyColumns+` FROM properties
		WHERE sync_enabled = 1
		ORDER BY last_synced_at ASC NULLS FIRST
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sync-enabled properties: %w", err)
	}
	defer rows.Close()

	return r.collectProperties(rows)
}

func (r *PropertyRepository) collectProperties(rows *sql.Rows) ([]models.Property, error) {
	var properties []models.Property
	for rows.Next() {
		var p models.Property
		if err := rows.Scan(
			&p.ID, &p.Name, &p.ExportToken, &p.SyncEnabled, &p.SyncIntervalMin,
			&p.LastSyncedAt, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning property: %w", err)
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update updates a property's name and sync settings.
func (r *PropertyRepository) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = r.Now()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET
			name = ?, sync_enabled = ?, sync_interval_min = ?, updated_at = ?
		WHERE id = ?
	`,
		p.Name, p.SyncEnabled, p.SyncIntervalMin, p.UpdatedAt, p.ID,
	)

	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", p.ID)
	}

	return nil
}

// UpdateLastSynced records the completion time of a sync run.
func (r *PropertyRepository) UpdateLastSynced(ctx context.Context, id string, ts time.Time) error {
	_, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET last_synced_at = ?, updated_at = ? WHERE id = ?
	`, ts, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating last synced: %w", err)
	}

	return nil
}

// RotateExportToken replaces a property's export token, invalidating any
// previously shared export URLs.
func (r *PropertyRepository) RotateExportToken(ctx context.Context, id string) (string, error) {
	token := GenerateExportToken()

	result, err := r.DB().ExecContext(ctx, `
		UPDATE properties SET export_token = ?, updated_at = ? WHERE id = ?
	`, token, r.Now(), id)

	if err != nil {
		return "", fmt.Errorf("rotating export token: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return "", fmt.Errorf("property not found: %s", id)
	}

	return token, nil
}

// Delete removes a property by ID. Feed sources and reservations cascade.
func (r *PropertyRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB().ExecContext(ctx, "DELETE FROM properties WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("property not found: %s", id)
	}

	return nil
}
