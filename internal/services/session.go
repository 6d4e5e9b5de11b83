package services

import (
	"context"
	"fmt"

	"babysteps-backend/internal/models"
)

type sessionStore interface {
	GetByToken(ctx context.Context, token string) (*models.Session, error)
}

type userStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// SessionService resolves opaque session tokens into users. Tokens are
// minted by the external auth provider; this service only looks them up.
type SessionService struct {
	sessionRepo sessionStore
	userRepo    userStore
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo sessionStore, userRepo userStore) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Resolve returns the user behind a session token, or an error when the
// token is unknown or expired.
func (s *SessionService) Resolve(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, fmt.Errorf("empty session token")
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	return user, nil
}
