// Package repository provides persistence implementations for the hardware
// ledger, authentication, and projects using a PostgreSQL database.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkovs/hwledger/internal/models"
	"github.com/google/uuid"
)

// PostgresHardwareRepository implements hardware ledger operations against
// a PostgreSQL database.
type PostgresHardwareRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresHardwareRepository creates a new PostgresHardwareRepository
// with the given database connection.
func NewPostgresHardwareRepository(db *sql.DB) *PostgresHardwareRepository {
	return &PostgresHardwareRepository{DB: db}
}

// GetAll returns every hardware set ordered by name.
func (r *PostgresHardwareRepository) GetAll(ctx context.Context) ([]models.HardwareSet, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, capacity, checked_out FROM hardware_sets ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("GetAll: %w", err)
	}
	defer rows.Close()

	var sets []models.HardwareSet
	for rows.Next() {
		var set models.HardwareSet
		if err := rows.Scan(&set.Name, &set.Capacity, &set.CheckedOut); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return sets, nil
}

// GetByName fetches a single hardware set by name, case-insensitively.
// Returns models.ErrSetNotFound if no such set exists.
func (r *PostgresHardwareRepository) GetByName(ctx context.Context, name string) (*models.HardwareSet, error) {
	var set models.HardwareSet
	err := r.DB.QueryRowContext(ctx, `
		SELECT name, capacity, checked_out FROM hardware_sets WHERE LOWER(name) = LOWER($1)
	`, name).Scan(&set.Name, &set.Capacity, &set.CheckedOut)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return &set, nil
}

// Checkout atomically adds quantity to the set's checked-out count.
// The bound check and the increment happen in a single guarded UPDATE, so
// two concurrent checkouts can never both pass the check against a stale
// count. Returns models.ErrSetNotFound for an unknown name and
// *models.CapacityExceededError when quantity exceeds availability; in
// both cases no mutation occurs.
func (r *PostgresHardwareRepository) Checkout(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	var set models.HardwareSet
	err := r.DB.QueryRowContext(ctx, `
		UPDATE hardware_sets
		   SET checked_out = checked_out + $2, updated_at = NOW()
		 WHERE LOWER(name) = LOWER($1) AND checked_out + $2 <= capacity
		RETURNING name, capacity, checked_out
	`, name, quantity).Scan(&set.Name, &set.Capacity, &set.CheckedOut)
	if errors.Is(err, sql.ErrNoRows) {
		// Either the set does not exist or the guard rejected the update.
		// Re-read to tell the two apart and to report the current bound.
		current, getErr := r.GetByName(ctx, name)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &models.CapacityExceededError{
			Set:       current.Name,
			Requested: quantity,
			Available: current.Available(),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("Checkout: %w", err)
	}
	return &set, nil
}

// Checkin atomically subtracts quantity from the set's checked-out count,
// guarded so the count never drops below zero. Returns
// models.ErrSetNotFound for an unknown name and
// *models.CheckinExceededError when quantity exceeds the checked-out
// count; in both cases no mutation occurs.
func (r *PostgresHardwareRepository) Checkin(ctx context.Context, name string, quantity int64) (*models.HardwareSet, error) {
	var set models.HardwareSet
	err := r.DB.QueryRowContext(ctx, `
		UPDATE hardware_sets
		   SET checked_out = checked_out - $2, updated_at = NOW()
		 WHERE LOWER(name) = LOWER($1) AND checked_out - $2 >= 0
		RETURNING name, capacity, checked_out
	`, name, quantity).Scan(&set.Name, &set.Capacity, &set.CheckedOut)
	if errors.Is(err, sql.ErrNoRows) {
		current, getErr := r.GetByName(ctx, name)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &models.CheckinExceededError{
			Set:        current.Name,
			Requested:  quantity,
			CheckedOut: current.CheckedOut,
		}
	}
	if err != nil {
		return nil, fmt.Errorf("Checkin: %w", err)
	}
	return &set, nil
}

// SeedDefaults inserts the given sets only when the hardware_sets table is
// empty. Runs in a transaction so concurrent starts cannot double-seed.
func (r *PostgresHardwareRepository) SeedDefaults(ctx context.Context, sets []models.HardwareSet) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int64
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hardware_sets`).Scan(&count); err != nil {
		return fmt.Errorf("count sets: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, set := range sets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO hardware_sets (name, capacity, checked_out)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO NOTHING
		`, set.Name, set.Capacity, set.CheckedOut)
		if err != nil {
			return fmt.Errorf("seed %s: %w", set.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// InsertEvent appends a checkout/checkin audit event.
func (r *PostgresHardwareRepository) InsertEvent(ctx context.Context, event models.CheckoutEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO hardware_events (id, set_name, action, quantity, username)
		VALUES ($1, $2, $3, $4, $5)
	`, event.ID, event.SetName, event.Action, event.Quantity, event.Username)
	if err != nil {
		return fmt.Errorf("InsertEvent: %w", err)
	}
	return nil
}
