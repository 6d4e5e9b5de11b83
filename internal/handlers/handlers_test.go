package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/models"
	"babysteps-backend/internal/repository"
	"babysteps-backend/internal/services"
)

// In-memory stores backing the handler tests. They mirror the ownership
// rules of the SQL repositories: lookups scoped to the wrong user come
// back as repository.ErrNotFound.

type memBabies struct {
	mu     sync.Mutex
	babies []*models.Baby
}

func (m *memBabies) Create(_ context.Context, baby *models.Baby) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.babies = append(m.babies, baby)
	return nil
}

func (m *memBabies) GetByID(_ context.Context, id, userID string) (*models.Baby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.babies {
		if b.ID == id && b.UserID == userID {
			return b, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memBabies) ListByUser(_ context.Context, userID string) ([]*models.Baby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Baby
	for _, b := range m.babies {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBabies) Update(_ context.Context, id, userID string, name, birthdate, photoURL *string) (*models.Baby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.babies {
		if b.ID != id || b.UserID != userID {
			continue
		}
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
	return nil, repository.ErrNotFound
}

func (m *memBabies) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.babies {
		if b.ID == id && b.UserID == userID {
			m.babies = append(m.babies[:i], m.babies[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memSteps struct {
	mu     sync.Mutex
	steps  []*models.Step
	owners map[string]string // baby id -> user id
}

func (m *memSteps) owns(babyID, userID string) bool {
	return m.owners[babyID] == userID
}

func (m *memSteps) Create(_ context.Context, step *models.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
	return nil
}

func (m *memSteps) CreateBulk(_ context.Context, steps []*models.Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, steps...)
	return nil
}

func (m *memSteps) GetByID(_ context.Context, id, userID string) (*models.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.steps {
		if s.ID == id && m.owns(s.BabyID, userID) {
			return s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSteps) ListByBaby(_ context.Context, babyID string) ([]*models.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Step
	for _, s := range m.steps {
		if s.BabyID == babyID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memSteps) ListByBabyAndDate(_ context.Context, babyID, date string) ([]*models.Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Step
	for _, s := range m.steps {
		if s.BabyID == babyID && s.Date == date {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSteps) CountByBabyAndDate(ctx context.Context, babyID, date string) (int, error) {
	steps, _ := m.ListByBabyAndDate(ctx, babyID, date)
	return len(steps), nil
}

func (m *memSteps) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, s := range m.steps {
		if s.ID == id && m.owns(s.BabyID, userID) {
			m.steps = append(m.steps[:i], m.steps[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memDescs struct {
	mu    sync.Mutex
	descs map[string]*models.DailyDescription // baby id + "|" + date
}

func descKey(babyID, date string) string { return babyID + "|" + date }

func (m *memDescs) Upsert(_ context.Context, desc *models.DailyDescription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.descs == nil {
		m.descs = map[string]*models.DailyDescription{}
	}
	m.descs[descKey(desc.BabyID, desc.Date)] = desc
	return nil
}

func (m *memDescs) GetByBabyAndDate(_ context.Context, babyID, date string) (*models.DailyDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.descs[descKey(babyID, date)]; ok {
		return d, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memDescs) DeleteByBabyAndDate(_ context.Context, babyID, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.descs, descKey(babyID, date))
	return nil
}

type memLocations struct {
	mu   sync.Mutex
	locs []*models.SavedLocation
}

func (m *memLocations) Create(_ context.Context, loc *models.SavedLocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locs = append(m.locs, loc)
	return nil
}

func (m *memLocations) GetByID(_ context.Context, id, userID string) (*models.SavedLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.locs {
		if l.ID == id && l.UserID == userID {
			return l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memLocations) ListByUser(_ context.Context, userID string) ([]*models.SavedLocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.SavedLocation
	for _, l := range m.locs {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLocations) Delete(_ context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.locs {
		if l.ID == id && l.UserID == userID {
			m.locs = append(m.locs[:i], m.locs[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memMedia struct {
	mu      sync.Mutex
	deleted []string
	nextID  int
	failFor string // file content that should fail to store
}

func (m *memMedia) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, url)
	return nil
}

func (m *memMedia) Upload(_ context.Context, userID, contentType string, body io.Reader) (string, error) {
	payload, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor != "" && string(payload) == m.failFor {
		return "", errStorageDown
	}
	m.nextID++
	return fmt.Sprintf("https://cdn.example.com/%s/%d", userID, m.nextID), nil
}

var errStorageDown = errors.New("storage unavailable")

type memSessions struct {
	tokens map[string]string // token -> user id
}

func (m *memSessions) GetByToken(_ context.Context, token string) (*models.Session, error) {
	if userID, ok := m.tokens[token]; ok {
		return &models.Session{ID: "s-" + userID, Token: token, UserID: userID}, nil
	}
	return nil, repository.ErrNotFound
}

type memUsers struct {
	users map[string]*models.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

// testEnv wires real services over the in-memory stores and mounts them
// on a router shaped like the production one.
type testEnv struct {
	router *chi.Mux
	babies *memBabies
	steps  *memSteps
	descs  *memDescs
	locs   *memLocations
	media  *memMedia
}

func newTestEnv() *testEnv {
	babies := &memBabies{}
	steps := &memSteps{owners: map[string]string{}}
	descs := &memDescs{}
	locs := &memLocations{}
	media := &memMedia{}

	// Track baby ownership for the steps store as babies are created.
	trackedBabies := &ownerTrackingBabies{memBabies: babies, steps: steps}

	babyService := services.NewBabyService(trackedBabies, steps, descs, media)
	stepService := services.NewStepService(steps, trackedBabies, locs, descs, media)
	locationService := services.NewLocationService(locs)
	descService := services.NewDescriptionService(descs, trackedBabies)
	uploadQueueService := services.NewUploadQueueService(media)
	sessionService := services.NewSessionService(
		&memSessions{tokens: map[string]string{"tok-u1": "u1", "tok-u2": "u2"}},
		&memUsers{users: map[string]*models.User{
			"u1": {ID: "u1", Email: "alice@example.com"},
			"u2": {ID: "u2", Email: "bob@example.com"},
		}},
	)

	babyHandler := NewBabyHandler(babyService)
	stepHandler := NewStepHandler(stepService)
	locationHandler := NewLocationHandler(locationService)
	descHandler := NewDescriptionHandler(descService)
	uploadHandler := NewUploadHandler(media, uploadQueueService, babyService, stepService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(sessionService))

			r.Get("/babies", babyHandler.ListBabies)
			r.Post("/babies", babyHandler.CreateBaby)
			r.Get("/babies/current", babyHandler.GetCurrentBaby)
			r.Post("/babies/{baby_id}/switch", babyHandler.SwitchBaby)
			r.Patch("/babies/{baby_id}", babyHandler.UpdateBaby)
			r.Delete("/babies/{baby_id}", babyHandler.DeleteBaby)

			r.Get("/babies/{baby_id}/steps", stepHandler.ListSteps)
			r.Get("/babies/{baby_id}/heatmap", stepHandler.Heatmap)
			r.Post("/steps", stepHandler.CreateStep)
			r.Post("/steps/bulk", stepHandler.CreateBulkSteps)
			r.Delete("/steps/{step_id}", stepHandler.DeleteStep)

			r.Get("/locations", locationHandler.ListLocations)
			r.Post("/locations", locationHandler.CreateLocation)
			r.Delete("/locations/{location_id}", locationHandler.DeleteLocation)

			r.Get("/babies/{baby_id}/descriptions/{date}", descHandler.GetDescription)
			r.Put("/babies/{baby_id}/descriptions/{date}", descHandler.UpsertDescription)

			r.Post("/upload", uploadHandler.Upload)
			r.Post("/babies/{baby_id}/upload-batch", uploadHandler.UploadBatch)
		})
	})

	return &testEnv{router: r, babies: babies, steps: steps, descs: descs, locs: locs, media: media}
}

// ownerTrackingBabies records baby ownership so the step store can answer
// the ownership joins the SQL layer does.
type ownerTrackingBabies struct {
	*memBabies
	steps *memSteps
}

func (o *ownerTrackingBabies) Create(ctx context.Context, baby *models.Baby) error {
	if err := o.memBabies.Create(ctx, baby); err != nil {
		return err
	}
	o.steps.owners[baby.ID] = baby.UserID
	return nil
}

func (e *testEnv) do(method, target, token, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
