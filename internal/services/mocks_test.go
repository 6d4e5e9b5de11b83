package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"babysteps-backend/internal/models"
	"babysteps-backend/internal/repository"
)

// In-memory fakes standing in for the pgx repositories.

type fakeBabyStore struct {
	babies []*models.Baby
}

func (f *fakeBabyStore) Create(_ context.Context, baby *models.Baby) error {
	f.babies = append(f.babies, baby)
	return nil
}

func (f *fakeBabyStore) GetByID(_ context.Context, id, userID string) (*models.Baby, error) {
	for _, b := range f.babies {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBabyStore) ListByUser(_ context.Context, userID string) ([]*models.Baby, error) {
	var out []*models.Baby
	for _, b := range f.babies {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBabyStore) Update(_ context.Context, id, userID string, name, birthdate, photoURL *string) (*models.Baby, error) {
	for _, b := range f.babies {
		if b.ID == id && b.UserID == userID {
			if name != nil {
				b.Name = *name
			}
			if birthdate != nil {
				b.Birthdate = *birthdate
			}
			if photoURL != nil {
				b.PhotoURL = photoURL
			}
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeBabyStore) Delete(_ context.Context, id, userID string) error {
	for i, b := range f.babies {
		if b.ID == id && b.UserID == userID {
			f.babies = append(f.babies[:i], f.babies[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeStepStore struct {
	steps  []*models.Step
	owners map[string]string // babyID -> userID
}

func newFakeStepStore() *fakeStepStore {
	return &fakeStepStore{owners: make(map[string]string)}
}

func (f *fakeStepStore) Create(_ context.Context, step *models.Step) error {
	f.steps = append(f.steps, step)
	return nil
}

func (f *fakeStepStore) CreateBulk(_ context.Context, steps []*models.Step) error {
	f.steps = append(f.steps, steps...)
	return nil
}

func (f *fakeStepStore) GetByID(_ context.Context, id, userID string) (*models.Step, error) {
	for _, s := range f.steps {
		if s.ID == id && f.owners[s.BabyID] == userID {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeStepStore) ListByBaby(_ context.Context, babyID string) ([]*models.Step, error) {
	var out []*models.Step
	for _, s := range f.steps {
		if s.BabyID == babyID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (f *fakeStepStore) ListByBabyAndDate(_ context.Context, babyID, date string) ([]*models.Step, error) {
	var out []*models.Step
	for _, s := range f.steps {
		if s.BabyID == babyID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStepStore) CountByBabyAndDate(_ context.Context, babyID, date string) (int, error) {
	count := 0
	for _, s := range f.steps {
		if s.BabyID == babyID && s.Date == date {
			count++
		}
	}
	return count, nil
}

func (f *fakeStepStore) Delete(_ context.Context, id, userID string) error {
	for i, s := range f.steps {
		if s.ID == id && f.owners[s.BabyID] == userID {
			f.steps = append(f.steps[:i], f.steps[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeDescriptionStore struct {
	descs map[string]*models.DailyDescription // babyID + "|" + date
}

func newFakeDescriptionStore() *fakeDescriptionStore {
	return &fakeDescriptionStore{descs: make(map[string]*models.DailyDescription)}
}

func descKey(babyID, date string) string { return babyID + "|" + date }

func (f *fakeDescriptionStore) Upsert(_ context.Context, desc *models.DailyDescription) error {
	key := descKey(desc.BabyID, desc.Date)
	if existing, ok := f.descs[key]; ok {
		existing.Description = desc.Description
		existing.UpdatedAt = desc.UpdatedAt
		return nil
	}
	f.descs[key] = desc
	return nil
}

func (f *fakeDescriptionStore) GetByBabyAndDate(_ context.Context, babyID, date string) (*models.DailyDescription, error) {
	if d, ok := f.descs[descKey(babyID, date)]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeDescriptionStore) DeleteByBabyAndDate(_ context.Context, babyID, date string) error {
	delete(f.descs, descKey(babyID, date))
	return nil
}

type fakeLocationStore struct {
	locations []*models.SavedLocation
}

func (f *fakeLocationStore) Create(_ context.Context, loc *models.SavedLocation) error {
	f.locations = append(f.locations, loc)
	return nil
}

func (f *fakeLocationStore) GetByID(_ context.Context, id, userID string) (*models.SavedLocation, error) {
	for _, l := range f.locations {
		if l.ID == id && l.UserID == userID {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeLocationStore) ListByUser(_ context.Context, userID string) ([]*models.SavedLocation, error) {
	var out []*models.SavedLocation
	for _, l := range f.locations {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeLocationStore) Delete(_ context.Context, id, userID string) error {
	for i, l := range f.locations {
		if l.ID == id && l.UserID == userID {
			f.locations = append(f.locations[:i], f.locations[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeMediaStore struct {
	mu      sync.Mutex
	deleted []string
	failOn  map[string]bool
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{failOn: make(map[string]bool)}
}

func (f *fakeMediaStore) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[url] {
		return fmt.Errorf("object store unavailable")
	}
	f.deleted = append(f.deleted, url)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func (f *fakeSessionStore) GetByToken(_ context.Context, token string) (*models.Session, error) {
	if s, ok := f.sessions[token]; ok {
		return s, nil
	}
	return nil, repository.ErrNotFound
}

type fakeUserStore struct {
	users map[string]*models.User
}

func (f *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}
