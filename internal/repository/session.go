package repository

import (
	"context"
	"errors"
	"fmt"

	"babysteps-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository reads auth-provider sessions. Session rows are written
// by the external auth provider.
type SessionRepository struct {
	db *pgxpool.Pool
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{db: db}
}

// GetByToken retrieves a non-expired session by its opaque token.
func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	query := `
		SELECT id, token, user_id, expires_at, ip_address, user_agent, created_at, updated_at
		FROM sessions
		WHERE token = $1 AND expires_at > now()
	`
	var s models.Session
	err := r.db.QueryRow(ctx, query, token).Scan(
		&s.ID, &s.Token, &s.UserID, &s.ExpiresAt,
		&s.IPAddress, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}
