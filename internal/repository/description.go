package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"babysteps-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DescriptionRepository handles database operations for daily descriptions.
type DescriptionRepository struct {
	db *pgxpool.Pool
}

// NewDescriptionRepository creates a new daily-description repository
func NewDescriptionRepository(db *pgxpool.Pool) *DescriptionRepository {
	return &DescriptionRepository{db: db}
}

// Upsert writes the description for one (baby, date) pair, relying on the
// unique constraint for the conflict target.
func (r *DescriptionRepository) Upsert(ctx context.Context, desc *models.DailyDescription) error {
	query := `
		INSERT INTO daily_descriptions (id, baby_id, date, description, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (baby_id, date)
		DO UPDATE SET description = EXCLUDED.description, updated_at = EXCLUDED.updated_at
	`
	if desc.UpdatedAt.IsZero() {
		desc.UpdatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, query,
		desc.ID, desc.BabyID, desc.Date, desc.Description, desc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily description: %w", err)
	}
	return nil
}

// GetByBabyAndDate retrieves the description for one (baby, date) pair.
func (r *DescriptionRepository) GetByBabyAndDate(ctx context.Context, babyID, date string) (*models.DailyDescription, error) {
	query := `
		SELECT id, baby_id, date, description, updated_at
		FROM daily_descriptions
		WHERE baby_id = $1 AND date = $2
	`
	var desc models.DailyDescription
	err := r.db.QueryRow(ctx, query, babyID, date).Scan(
		&desc.ID, &desc.BabyID, &desc.Date, &desc.Description, &desc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get daily description: %w", err)
	}
	return &desc, nil
}

// DeleteByBabyAndDate removes the description for one (baby, date) pair.
// Absence is not an error.
func (r *DescriptionRepository) DeleteByBabyAndDate(ctx context.Context, babyID, date string) error {
	query := `DELETE FROM daily_descriptions WHERE baby_id = $1 AND date = $2`
	_, err := r.db.Exec(ctx, query, babyID, date)
	if err != nil {
		return fmt.Errorf("failed to delete daily description: %w", err)
	}
	return nil
}
