package repository

import (
	"context"
	"errors"
	"fmt"

	"babysteps-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LocationRepository handles database operations for saved locations.
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository creates a new saved-location repository
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

// Create creates a new saved location
func (r *LocationRepository) Create(ctx context.Context, loc *models.SavedLocation) error {
	query := `
		INSERT INTO saved_locations (id, user_id, nickname, address, full_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		loc.ID, loc.UserID, loc.Nickname, loc.Address, loc.FullName, loc.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create saved location: %w", err)
	}
	return nil
}

// GetByID retrieves a saved location owned by the given user.
func (r *LocationRepository) GetByID(ctx context.Context, id, userID string) (*models.SavedLocation, error) {
	query := `
		SELECT id, user_id, nickname, address, full_name, created_at
		FROM saved_locations
		WHERE id = $1 AND user_id = $2
	`
	var loc models.SavedLocation
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&loc.ID, &loc.UserID, &loc.Nickname, &loc.Address, &loc.FullName, &loc.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get saved location: %w", err)
	}
	return &loc, nil
}

// ListByUser retrieves all saved locations for a user, newest first.
func (r *LocationRepository) ListByUser(ctx context.Context, userID string) ([]*models.SavedLocation, error) {
	query := `
		SELECT id, user_id, nickname, address, full_name, created_at
		FROM saved_locations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved locations: %w", err)
	}
	defer rows.Close()

	var locs []*models.SavedLocation
	for rows.Next() {
		var loc models.SavedLocation
		err := rows.Scan(
			&loc.ID, &loc.UserID, &loc.Nickname, &loc.Address, &loc.FullName, &loc.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved location: %w", err)
		}
		locs = append(locs, &loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved locations: %w", err)
	}

	return locs, nil
}

// Delete deletes a saved location owned by the user. Steps referencing it
// keep their denormalized nickname; the FK is set null by the database.
func (r *LocationRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM saved_locations WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete saved location: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
