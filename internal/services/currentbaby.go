package services

import (
	"context"

	"babysteps-backend/internal/models"
)

// ResolveCurrent returns the user's active baby, or nil when the user has
// none. The hint is the client-stored preference token; it is honored only
// when it names a baby in the user's own set, otherwise the newest-created
// baby wins. A stale or forged hint can therefore never surface another
// user's baby.
func (s *BabyService) ResolveCurrent(ctx context.Context, userID, hintBabyID string) (*models.Baby, error) {
	babies, err := s.babyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(babies) == 0 {
		return nil, nil
	}
	if hintBabyID != "" {
		for _, b := range babies {
			if b.ID == hintBabyID {
				return b, nil
			}
		}
	}
	return babies[0], nil
}
