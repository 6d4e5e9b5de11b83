package services

import (
	"context"
	"fmt"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	arrivalTitle   = "Arrival"
	arrivalCaption = "The journey begins today."
)

type babyStore interface {
	Create(ctx context.Context, baby *models.Baby) error
	GetByID(ctx context.Context, id, userID string) (*models.Baby, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Baby, error)
	Update(ctx context.Context, id, userID string, name, birthdate, photoURL *string) (*models.Baby, error)
	Delete(ctx context.Context, id, userID string) error
}

type mediaStore interface {
	Delete(ctx context.Context, url string) error
}

// BabyService handles baby-related business logic
type BabyService struct {
	babyRepo babyStore
	stepRepo stepStore
	descRepo descriptionStore
	storage  mediaStore
}

// NewBabyService creates a new baby service
func NewBabyService(babyRepo babyStore, stepRepo stepStore, descRepo descriptionStore, storage mediaStore) *BabyService {
	return &BabyService{
		babyRepo: babyRepo,
		stepRepo: stepRepo,
		descRepo: descRepo,
		storage:  storage,
	}
}

// CreateBabyInput are the fields accepted when creating a baby.
type CreateBabyInput struct {
	Name      string  `json:"name"`
	Birthdate string  `json:"birthdate"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// Create creates a baby and seeds its birthdate with the "Arrival"
// milestone step and the first daily description.
func (s *BabyService) Create(ctx context.Context, userID string, input CreateBabyInput) (*models.Baby, error) {
	if input.Name == "" {
		return nil, validationErrorf("name is required")
	}
	if _, err := dateutil.ParseDate(input.Birthdate); err != nil {
		return nil, validationErrorf("invalid birthdate %q", input.Birthdate)
	}

	baby := &models.Baby{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      input.Name,
		Birthdate: input.Birthdate,
		PhotoURL:  input.PhotoURL,
		CreatedAt: time.Now(),
	}
	if err := s.babyRepo.Create(ctx, baby); err != nil {
		return nil, fmt.Errorf("failed to create baby: %w", err)
	}

	title := arrivalTitle
	caption := arrivalCaption
	arrival := &models.Step{
		ID:        uuid.New().String(),
		BabyID:    baby.ID,
		Date:      input.Birthdate,
		IsMajor:   true,
		Type:      models.StepTypeMilestone,
		Title:     &title,
		Caption:   &caption,
		CreatedAt: time.Now(),
	}
	if err := s.stepRepo.Create(ctx, arrival); err != nil {
		return nil, fmt.Errorf("failed to seed arrival step: %w", err)
	}

	desc := &models.DailyDescription{
		ID:          uuid.New().String(),
		BabyID:      baby.ID,
		Date:        input.Birthdate,
		Description: arrivalCaption,
		UpdatedAt:   time.Now(),
	}
	if err := s.descRepo.Upsert(ctx, desc); err != nil {
		return nil, fmt.Errorf("failed to seed daily description: %w", err)
	}

	return baby, nil
}

// UpdateBabyInput are the editable profile fields.
type UpdateBabyInput struct {
	Name      *string `json:"name,omitempty"`
	Birthdate *string `json:"birthdate,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// Update edits the profile of a baby owned by the user.
func (s *BabyService) Update(ctx context.Context, userID, babyID string, input UpdateBabyInput) (*models.Baby, error) {
	if input.Birthdate != nil {
		if _, err := dateutil.ParseDate(*input.Birthdate); err != nil {
			return nil, validationErrorf("invalid birthdate %q", *input.Birthdate)
		}
	}
	return s.babyRepo.Update(ctx, babyID, userID, input.Name, input.Birthdate, input.PhotoURL)
}

// Delete removes a baby, its database rows (cascaded) and its stored media.
// Media removal is best-effort; a failed object delete is logged and does
// not block the row delete.
func (s *BabyService) Delete(ctx context.Context, userID, babyID string) error {
	baby, err := s.babyRepo.GetByID(ctx, babyID, userID)
	if err != nil {
		return err
	}

	steps, err := s.stepRepo.ListByBaby(ctx, babyID)
	if err != nil {
		return fmt.Errorf("failed to list steps before delete: %w", err)
	}

	if err := s.babyRepo.Delete(ctx, babyID, userID); err != nil {
		return err
	}

	for _, step := range steps {
		if step.PhotoURL == nil {
			continue
		}
		if err := s.storage.Delete(ctx, *step.PhotoURL); err != nil {
			log.Warn().Err(err).Str("step_id", step.ID).Msg("Failed to delete step media")
		}
	}
	if baby.PhotoURL != nil {
		if err := s.storage.Delete(ctx, *baby.PhotoURL); err != nil {
			log.Warn().Err(err).Str("baby_id", baby.ID).Msg("Failed to delete baby photo")
		}
	}

	return nil
}

// List returns all babies for a user, newest created first.
func (s *BabyService) List(ctx context.Context, userID string) ([]*models.Baby, error) {
	return s.babyRepo.ListByUser(ctx, userID)
}

// Get returns one baby owned by the user.
func (s *BabyService) Get(ctx context.Context, userID, babyID string) (*models.Baby, error) {
	return s.babyRepo.GetByID(ctx, babyID, userID)
}

// Switch validates that the baby belongs to the user before the handler
// rewrites the preference cookie.
func (s *BabyService) Switch(ctx context.Context, userID, babyID string) (*models.Baby, error) {
	return s.babyRepo.GetByID(ctx, babyID, userID)
}
