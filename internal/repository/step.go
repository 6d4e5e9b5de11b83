package repository

import (
	"context"
	"errors"
	"fmt"

	"babysteps-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const stepColumns = `s.id, s.baby_id, s.photo_url, s.date, s.location_id, s.location_nickname,
		s.is_major, s.type, s.weight, s.height, s.first_word, s.title, s.caption, s.created_at`

// StepRepository handles database operations for steps. Ownership is
// enforced with a join to the owning baby on every user-facing query.
type StepRepository struct {
	db *pgxpool.Pool
}

// NewStepRepository creates a new step repository
func NewStepRepository(db *pgxpool.Pool) *StepRepository {
	return &StepRepository{db: db}
}

// Create creates a new step
func (r *StepRepository) Create(ctx context.Context, step *models.Step) error {
	query := `
		INSERT INTO steps (id, baby_id, photo_url, date, location_id, location_nickname,
			is_major, type, weight, height, first_word, title, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.db.Exec(ctx, query,
		step.ID, step.BabyID, step.PhotoURL, step.Date, step.LocationID, step.LocationNickname,
		step.IsMajor, step.Type, step.Weight, step.Height, step.FirstWord, step.Title,
		step.Caption, step.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create step: %w", err)
	}
	return nil
}

// CreateBulk inserts several steps in one batch.
func (r *StepRepository) CreateBulk(ctx context.Context, steps []*models.Step) error {
	if len(steps) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO steps (id, baby_id, photo_url, date, location_id, location_nickname,
			is_major, type, weight, height, first_word, title, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	for _, step := range steps {
		batch.Queue(query,
			step.ID, step.BabyID, step.PhotoURL, step.Date, step.LocationID, step.LocationNickname,
			step.IsMajor, step.Type, step.Weight, step.Height, step.FirstWord, step.Title,
			step.Caption, step.CreatedAt,
		)
	}

	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range steps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to create steps in bulk: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a step whose owning baby belongs to the given user.
func (r *StepRepository) GetByID(ctx context.Context, id, userID string) (*models.Step, error) {
	query := `
		SELECT ` + stepColumns + `
		FROM steps s
		JOIN babies b ON b.id = s.baby_id
		WHERE s.id = $1 AND b.user_id = $2
	`
	var step models.Step
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&step.ID, &step.BabyID, &step.PhotoURL, &step.Date, &step.LocationID,
		&step.LocationNickname, &step.IsMajor, &step.Type, &step.Weight, &step.Height,
		&step.FirstWord, &step.Title, &step.Caption, &step.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get step: %w", err)
	}
	return &step, nil
}

// ListByBaby retrieves all steps for a baby ordered by date ascending.
// Insertion order is kept within a date.
func (r *StepRepository) ListByBaby(ctx context.Context, babyID string) ([]*models.Step, error) {
	query := `
		SELECT ` + stepColumns + `
		FROM steps s
		WHERE s.baby_id = $1
		ORDER BY s.date, s.created_at
	`
	return r.list(ctx, query, babyID)
}

// ListByBabyAndDate retrieves the steps for one (baby, date) pair in
// insertion order.
func (r *StepRepository) ListByBabyAndDate(ctx context.Context, babyID, date string) ([]*models.Step, error) {
	query := `
		SELECT ` + stepColumns + `
		FROM steps s
		WHERE s.baby_id = $1 AND s.date = $2
		ORDER BY s.created_at
	`
	return r.list(ctx, query, babyID, date)
}

func (r *StepRepository) list(ctx context.Context, query string, args ...any) ([]*models.Step, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list steps: %w", err)
	}
	defer rows.Close()

	var steps []*models.Step
	for rows.Next() {
		var step models.Step
		err := rows.Scan(
			&step.ID, &step.BabyID, &step.PhotoURL, &step.Date, &step.LocationID,
			&step.LocationNickname, &step.IsMajor, &step.Type, &step.Weight, &step.Height,
			&step.FirstWord, &step.Title, &step.Caption, &step.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, &step)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating steps: %w", err)
	}

	return steps, nil
}

// CountByBabyAndDate returns how many steps exist for one (baby, date) pair.
func (r *StepRepository) CountByBabyAndDate(ctx context.Context, babyID, date string) (int, error) {
	query := `SELECT COUNT(*) FROM steps WHERE baby_id = $1 AND date = $2`
	var count int
	if err := r.db.QueryRow(ctx, query, babyID, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count steps: %w", err)
	}
	return count, nil
}

// Delete deletes a step whose owning baby belongs to the given user.
func (r *StepRepository) Delete(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM steps s
		USING babies b
		WHERE s.id = $1 AND b.id = s.baby_id AND b.user_id = $2
	`
	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete step: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
