package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/staysync/backend/internal/storage/models"
)

// ReservationRepository provides data access for reservations, both
// genuine bookings and external calendar blocks.
type ReservationRepository struct {
	BaseRepository
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *DB) *ReservationRepository {
	return &ReservationRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

const reservationColumns = `id, property_id, start_date, end_date, guest_count,
       total_price, is_external_block, source_label, status, created_at, updated_at`

// Create inserts a new reservation.
func (r *ReservationRepository) Create(ctx context.Context, res *models.Reservation) error {
	res.ID = GenerateID()
	res.CreatedAt = r.Now()
	res.UpdatedAt = res.CreatedAt

	_, err := r.DB().ExecContext(ctx, `
		INSERT INTO reservations (
			id, property_id, start_date, end_date, guest_count, total_price,
			is_external_block, source_label, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		res.ID, res.PropertyID, res.Range.Start, res.Range.End,
		res.GuestCount, res.TotalPrice, res.IsExternalBlock, res.SourceLabel,
		res.Status, res.CreatedAt, res.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("inserting reservation: %w", err)
	}

	return nil
}

// GetByID retrieves a reservation by its ID. Returns nil when not found.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	res := &models.Reservation{}

	err := r.DB().QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id,
	).Scan(
		&res.ID, &res.PropertyID, &res.Range.Start, &res.Range.End,
		&res.GuestCount, &res.TotalPrice, &res.IsExternalBlock, &res.SourceLabel,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying reservation: %w", err)
	}

	return res, nil
}

// ListByProperty retrieves all reservations for a property, newest stay first.
func (r *ReservationRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.Reservation, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE property_id = ?
		ORDER BY start_date DESC
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("querying reservations: %w", err)
	}
	defer rows.Close()

	return r.collectReservations(rows)
}

// ListConfirmed retrieves all confirmed reservations for a property.
// This is the snapshot the resolver and validator run against.
func (r *ReservationRepository) ListConfirmed(ctx context.Context, propertyID string) ([]models.Reservation, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE property_id = ? AND status = ?
		ORDER BY start_date
	`, propertyID, models.ReservationStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("querying confirmed reservations: %w", err)
	}
	defer rows.Close()

	return r.collectReservations(rows)
}

// ListConfirmedEndingOnOrAfter retrieves confirmed reservations whose
// checkout date is on or after the given date. Used by the export path
// to keep public feeds forward-looking.
func (r *ReservationRepository) ListConfirmedEndingOnOrAfter(ctx context.Context, propertyID string, date time.Time) ([]models.Reservation, error) {
	rows, err := r.DB().QueryContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE property_id = ? AND status = ? AND end_date >= ?
		ORDER BY start_date
	`, propertyID, models.ReservationStatusConfirmed, date)
	if err != nil {
		return nil, fmt.Errorf("querying forward reservations: %w", err)
	}
	defer rows.Close()

	return r.collectReservations(rows)
}

func (r *ReservationRepository) collectReservations(rows *sql.Rows) ([]models.Reservation, error) {
	var reservations []models.Reservation
	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(
			&res.ID, &res.PropertyID, &res.Range.Start, &res.Range.End,
			&res.GuestCount, &res.TotalPrice, &res.IsExternalBlock, &res.SourceLabel,
			&res.Status, &res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

// InsertExternalBlocks inserts a batch of external-block reservations in
// a single transaction. A failure rolls back the whole batch so a sync
// run never leaves a partial write behind.
func (r *ReservationRepository) InsertExternalBlocks(ctx context.Context, propertyID string, blocks []models.Reservation) error {
	if len(blocks) == 0 {
		return nil
	}

	now := r.Now()

	return r.Transaction(func(tx *sql.Tx) error {
		for i := range blocks {
			blocks[i].ID = GenerateID()
			blocks[i].PropertyID = propertyID
			blocks[i].IsExternalBlock = true
			blocks[i].Status = models.ReservationStatusConfirmed
			blocks[i].CreatedAt = now
			blocks[i].UpdatedAt = now

			_, err := tx.ExecContext(ctx, `
				INSERT INTO reservations (
					id, property_id, start_date, end_date, guest_count, total_price,
					is_external_block, source_label, status, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
				blocks[i].ID, propertyID, blocks[i].Range.Start, blocks[i].Range.End,
				blocks[i].GuestCount, blocks[i].TotalPrice, true, blocks[i].SourceLabel,
				blocks[i].Status, now, now,
			)
			if err != nil {
				return fmt.Errorf("inserting external block %s: %w", blocks[i].Range, err)
			}
		}

		return nil
	})
}

// UpdateStatus changes a reservation's status (e.g. cancellation).
func (r *ReservationRepository) UpdateStatus(ctx context.Context, id, status string) error {
	result, err := r.DB().ExecContext(ctx, `
		UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?
	`, status, r.Now(), id)

	if err != nil {
		return fmt.Errorf("updating reservation status: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("reservation not found: %s", id)
	}

	return nil
}
