package services

import (
	"context"
	"errors"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"
	"babysteps-backend/internal/repository"

	"github.com/google/uuid"
)

// DescriptionService handles daily-description business logic
type DescriptionService struct {
	descRepo descriptionStore
	babyRepo babyStore
}

// NewDescriptionService creates a new daily-description service
func NewDescriptionService(descRepo descriptionStore, babyRepo babyStore) *DescriptionService {
	return &DescriptionService{
		descRepo: descRepo,
		babyRepo: babyRepo,
	}
}

// Upsert writes the free-text note for one (baby, date) pair of a baby
// owned by the user.
func (s *DescriptionService) Upsert(ctx context.Context, userID, babyID, date, text string) (*models.DailyDescription, error) {
	if _, err := dateutil.ParseDate(date); err != nil {
		return nil, validationErrorf("invalid date %q", date)
	}
	if _, err := s.babyRepo.GetByID(ctx, babyID, userID); err != nil {
		return nil, err
	}

	desc := &models.DailyDescription{
		ID:          uuid.New().String(),
		BabyID:      babyID,
		Date:        date,
		Description: text,
		UpdatedAt:   time.Now(),
	}
	if err := s.descRepo.Upsert(ctx, desc); err != nil {
		return nil, err
	}
	return desc, nil
}

// Get returns the note for one (baby, date) pair, or nil when no note
// exists yet.
func (s *DescriptionService) Get(ctx context.Context, userID, babyID, date string) (*models.DailyDescription, error) {
	if _, err := s.babyRepo.GetByID(ctx, babyID, userID); err != nil {
		return nil, err
	}

	desc, err := s.descRepo.GetByBabyAndDate(ctx, babyID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return desc, err
}
