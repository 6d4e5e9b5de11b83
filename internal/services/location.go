package services

import (
	"context"
	"time"

	"babysteps-backend/internal/models"

	"github.com/google/uuid"
)

// LocationService handles saved-location business logic
type LocationService struct {
	locRepo locationStore
}

// NewLocationService creates a new saved-location service
func NewLocationService(locRepo locationStore) *LocationService {
	return &LocationService{locRepo: locRepo}
}

// LocationInput are the fields accepted when saving a location.
type LocationInput struct {
	Nickname string  `json:"nickname"`
	Address  string  `json:"address"`
	FullName *string `json:"full_name,omitempty"`
}

// Create saves a new location for the user.
func (s *LocationService) Create(ctx context.Context, userID string, input LocationInput) (*models.SavedLocation, error) {
	if input.Nickname == "" {
		return nil, validationErrorf("nickname is required")
	}
	if input.Address == "" {
		return nil, validationErrorf("address is required")
	}

	loc := &models.SavedLocation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Nickname:  input.Nickname,
		Address:   input.Address,
		FullName:  input.FullName,
		CreatedAt: time.Now(),
	}
	if err := s.locRepo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

// List returns the user's saved locations, newest first.
func (s *LocationService) List(ctx context.Context, userID string) ([]*models.SavedLocation, error) {
	return s.locRepo.ListByUser(ctx, userID)
}

// Delete removes one of the user's saved locations.
func (s *LocationService) Delete(ctx context.Context, userID, locationID string) error {
	return s.locRepo.Delete(ctx, locationID, userID)
}
