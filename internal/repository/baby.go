package repository

import (
	"context"
	"errors"
	"fmt"

	"babysteps-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BabyRepository handles database operations for babies. Every query is
// filtered by the owning user id.
type BabyRepository struct {
	db *pgxpool.Pool
}

// NewBabyRepository creates a new baby repository
func NewBabyRepository(db *pgxpool.Pool) *BabyRepository {
	return &BabyRepository{db: db}
}

// Create creates a new baby
func (r *BabyRepository) Create(ctx context.Context, baby *models.Baby) error {
	query := `
		INSERT INTO babies (id, user_id, name, birthdate, photo_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		baby.ID, baby.UserID, baby.Name, baby.Birthdate, baby.PhotoURL, baby.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create baby: %w", err)
	}
	return nil
}

// GetByID retrieves a baby owned by the given user.
func (r *BabyRepository) GetByID(ctx context.Context, id, userID string) (*models.Baby, error) {
	query := `
		SELECT id, user_id, name, birthdate, photo_url, created_at
		FROM babies
		WHERE id = $1 AND user_id = $2
	`
	var baby models.Baby
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&baby.ID, &baby.UserID, &baby.Name, &baby.Birthdate,
		&baby.PhotoURL, &baby.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get baby: %w", err)
	}
	return &baby, nil
}

// ListByUser retrieves all babies for a user, newest created first.
func (r *BabyRepository) ListByUser(ctx context.Context, userID string) ([]*models.Baby, error) {
	query := `
		SELECT id, user_id, name, birthdate, photo_url, created_at
		FROM babies
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list babies: %w", err)
	}
	defer rows.Close()

	var babies []*models.Baby
	for rows.Next() {
		var baby models.Baby
		err := rows.Scan(
			&baby.ID, &baby.UserID, &baby.Name, &baby.Birthdate,
			&baby.PhotoURL, &baby.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan baby: %w", err)
		}
		babies = append(babies, &baby)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating babies: %w", err)
	}

	return babies, nil
}

// Update updates the editable profile fields of a baby owned by the user.
func (r *BabyRepository) Update(ctx context.Context, id, userID string, name, birthdate, photoURL *string) (*models.Baby, error) {
	query := `
		UPDATE babies
		SET name = COALESCE($3, name),
		    birthdate = COALESCE($4, birthdate),
		    photo_url = COALESCE($5, photo_url)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, birthdate, photo_url, created_at
	`
	var baby models.Baby
	err := r.db.QueryRow(ctx, query, id, userID, name, birthdate, photoURL).Scan(
		&baby.ID, &baby.UserID, &baby.Name, &baby.Birthdate,
		&baby.PhotoURL, &baby.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update baby: %w", err)
	}
	return &baby, nil
}

// Delete deletes a baby owned by the user. Steps and daily descriptions
// cascade at the database level.
func (r *BabyRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM babies WHERE id = $1 AND user_id = $2`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete baby: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
