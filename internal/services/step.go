package services

import (
	"context"
	"fmt"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/models"
	"babysteps-backend/internal/timeline"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type stepStore interface {
	Create(ctx context.Context, step *models.Step) error
	CreateBulk(ctx context.Context, steps []*models.Step) error
	GetByID(ctx context.Context, id, userID string) (*models.Step, error)
	ListByBaby(ctx context.Context, babyID string) ([]*models.Step, error)
	ListByBabyAndDate(ctx context.Context, babyID, date string) ([]*models.Step, error)
	CountByBabyAndDate(ctx context.Context, babyID, date string) (int, error)
	Delete(ctx context.Context, id, userID string) error
}

type locationStore interface {
	Create(ctx context.Context, loc *models.SavedLocation) error
	GetByID(ctx context.Context, id, userID string) (*models.SavedLocation, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SavedLocation, error)
	Delete(ctx context.Context, id, userID string) error
}

type descriptionStore interface {
	Upsert(ctx context.Context, desc *models.DailyDescription) error
	GetByBabyAndDate(ctx context.Context, babyID, date string) (*models.DailyDescription, error)
	DeleteByBabyAndDate(ctx context.Context, babyID, date string) error
}

// StepService handles step-related business logic
type StepService struct {
	stepRepo stepStore
	babyRepo babyStore
	locRepo  locationStore
	descRepo descriptionStore
	storage  mediaStore
}

// NewStepService creates a new step service
func NewStepService(stepRepo stepStore, babyRepo babyStore, locRepo locationStore, descRepo descriptionStore, storage mediaStore) *StepService {
	return &StepService{
		stepRepo: stepRepo,
		babyRepo: babyRepo,
		locRepo:  locRepo,
		descRepo: descRepo,
		storage:  storage,
	}
}

// StepInput are the fields accepted when creating a step.
type StepInput struct {
	BabyID     string   `json:"baby_id"`
	PhotoURL   *string  `json:"photo_url,omitempty"`
	Date       string   `json:"date"`
	LocationID *string  `json:"location_id,omitempty"`
	IsMajor    bool     `json:"is_major"`
	Type       string   `json:"type"`
	Weight     *float64 `json:"weight,omitempty"`
	Height     *float64 `json:"height,omitempty"`
	FirstWord  *string  `json:"first_word,omitempty"`
	Title      *string  `json:"title,omitempty"`
	Caption    *string  `json:"caption,omitempty"`
}

func (s *StepService) buildStep(ctx context.Context, userID string, baby *models.Baby, input StepInput) (*models.Step, error) {
	if input.Type == "" {
		input.Type = models.StepTypePhoto
	}
	if !models.ValidStepType(input.Type) {
		return nil, validationErrorf("invalid step type %q", input.Type)
	}

	date, err := dateutil.ParseDate(input.Date)
	if err != nil {
		return nil, validationErrorf("invalid date %q", input.Date)
	}
	birth, err := dateutil.ParseDate(baby.Birthdate)
	if err != nil {
		return nil, fmt.Errorf("invalid baby birthdate: %w", err)
	}
	if date.Before(birth) {
		return nil, validationErrorf("step date %s precedes birthdate %s", input.Date, baby.Birthdate)
	}

	step := &models.Step{
		ID:        uuid.New().String(),
		BabyID:    baby.ID,
		PhotoURL:  input.PhotoURL,
		Date:      input.Date,
		IsMajor:   input.IsMajor,
		Type:      input.Type,
		Weight:    input.Weight,
		Height:    input.Height,
		FirstWord: input.FirstWord,
		Title:     input.Title,
		Caption:   input.Caption,
		CreatedAt: time.Now(),
	}

	if input.LocationID != nil {
		loc, err := s.locRepo.GetByID(ctx, *input.LocationID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve location: %w", err)
		}
		step.LocationID = &loc.ID
		step.LocationNickname = &loc.Nickname
	}

	return step, nil
}

// Create creates a single step for a baby owned by the user.
func (s *StepService) Create(ctx context.Context, userID string, input StepInput) (*models.Step, error) {
	baby, err := s.babyRepo.GetByID(ctx, input.BabyID, userID)
	if err != nil {
		return nil, err
	}

	step, err := s.buildStep(ctx, userID, baby, input)
	if err != nil {
		return nil, err
	}
	if err := s.stepRepo.Create(ctx, step); err != nil {
		return nil, err
	}
	return step, nil
}

// CreateBulk creates several steps for one baby in a single batch. All
// inputs must name the same baby; the whole batch is validated before any
// insert happens.
func (s *StepService) CreateBulk(ctx context.Context, userID string, inputs []StepInput) ([]*models.Step, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	babyID := inputs[0].BabyID
	for _, in := range inputs {
		if in.BabyID != babyID {
			return nil, validationErrorf("bulk create spans multiple babies")
		}
	}

	baby, err := s.babyRepo.GetByID(ctx, babyID, userID)
	if err != nil {
		return nil, err
	}

	steps := make([]*models.Step, 0, len(inputs))
	for _, in := range inputs {
		step, err := s.buildStep(ctx, userID, baby, in)
		if err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}

	if err := s.stepRepo.CreateBulk(ctx, steps); err != nil {
		return nil, err
	}
	return steps, nil
}

// ListByBaby returns all steps of a baby owned by the user, ordered by
// date ascending.
func (s *StepService) ListByBaby(ctx context.Context, userID, babyID string) ([]*models.Step, error) {
	if _, err := s.babyRepo.GetByID(ctx, babyID, userID); err != nil {
		return nil, err
	}
	return s.stepRepo.ListByBaby(ctx, babyID)
}

// ListByBabyAndDate returns the steps of one day, in creation order.
func (s *StepService) ListByBabyAndDate(ctx context.Context, userID, babyID, date string) ([]*models.Step, error) {
	if _, err := dateutil.ParseDate(date); err != nil {
		return nil, validationErrorf("invalid date %q", date)
	}
	if _, err := s.babyRepo.GetByID(ctx, babyID, userID); err != nil {
		return nil, err
	}
	return s.stepRepo.ListByBabyAndDate(ctx, babyID, date)
}

// Timeline returns the day groups of one month bucket plus the month pills.
func (s *StepService) Timeline(ctx context.Context, userID, babyID string, monthIndex int, ref time.Time) ([]timeline.DayGroup, []timeline.MonthPill, error) {
	baby, err := s.babyRepo.GetByID(ctx, babyID, userID)
	if err != nil {
		return nil, nil, err
	}
	birth, err := dateutil.ParseDate(baby.Birthdate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid baby birthdate: %w", err)
	}

	steps, err := s.stepRepo.ListByBaby(ctx, babyID)
	if err != nil {
		return nil, nil, err
	}

	return timeline.GroupByDay(steps, birth, monthIndex), timeline.MonthPills(birth, ref), nil
}

// Heatmap returns the 36-week activity buckets for a baby owned by the user.
func (s *StepService) Heatmap(ctx context.Context, userID, babyID string, ref time.Time) ([]dateutil.HeatmapWeek, error) {
	if _, err := s.babyRepo.GetByID(ctx, babyID, userID); err != nil {
		return nil, err
	}
	steps, err := s.stepRepo.ListByBaby(ctx, babyID)
	if err != nil {
		return nil, err
	}
	dates := make([]string, 0, len(steps))
	for _, step := range steps {
		dates = append(dates, step.Date)
	}
	return dateutil.HeatmapWeeks(dates, ref), nil
}

// Delete removes a step owned (via its baby) by the user, deletes its
// stored media object, and cleans up the daily description when the step
// was the last one on its date. Media and description cleanup failures are
// logged, not escalated; the row delete is the operation that must succeed.
func (s *StepService) Delete(ctx context.Context, userID, stepID string) error {
	step, err := s.stepRepo.GetByID(ctx, stepID, userID)
	if err != nil {
		return err
	}

	if err := s.stepRepo.Delete(ctx, stepID, userID); err != nil {
		return err
	}

	if step.PhotoURL != nil {
		if err := s.storage.Delete(ctx, *step.PhotoURL); err != nil {
			log.Warn().Err(err).Str("step_id", stepID).Msg("Failed to delete step media")
		}
	}

	remaining, err := s.stepRepo.CountByBabyAndDate(ctx, step.BabyID, step.Date)
	if err != nil {
		log.Warn().Err(err).Str("baby_id", step.BabyID).Str("date", step.Date).
			Msg("Failed to count remaining steps; skipping description cleanup")
		return nil
	}
	if remaining == 0 {
		if err := s.descRepo.DeleteByBabyAndDate(ctx, step.BabyID, step.Date); err != nil {
			log.Warn().Err(err).Str("baby_id", step.BabyID).Str("date", step.Date).
				Msg("Failed to delete orphaned daily description")
		}
	}
	return nil
}
