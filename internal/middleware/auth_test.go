package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babysteps-backend/internal/models"
	"babysteps-backend/internal/repository"
	"babysteps-backend/internal/services"
)

type stubSessionStore struct {
	token  string
	userID string
}

func (s *stubSessionStore) GetByToken(_ context.Context, token string) (*models.Session, error) {
	if token != s.token {
		return nil, repository.ErrNotFound
	}
	return &models.Session{ID: "s1", Token: token, UserID: s.userID}, nil
}

type stubUserStore struct {
	user *models.User
}

func (s *stubUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, repository.ErrNotFound
	}
	return s.user, nil
}

func newTestMiddleware() func(http.Handler) http.Handler {
	sessions := &stubSessionStore{token: "tok", userID: "u1"}
	users := &stubUserStore{user: &models.User{ID: "u1", Email: "alice@example.com"}}
	return AuthMiddleware(services.NewSessionService(sessions, users))
}

func echoUserHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r.Context())
		require.NotNil(t, user)
		w.Write([]byte(user.ID))
	})
}

func TestAuthMiddlewareCookie(t *testing.T) {
	handler := newTestMiddleware()(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestAuthMiddlewareBearer(t *testing.T) {
	handler := newTestMiddleware()(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestAuthMiddlewareMissingToken(t *testing.T) {
	handler := newTestMiddleware()(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, rec.Body.String())
}

func TestAuthMiddlewareUnknownToken(t *testing.T) {
	handler := newTestMiddleware()(echoUserHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid session"}`, rec.Body.String())
}

func TestGetUserIDWithoutUser(t *testing.T) {
	assert.Empty(t, GetUserID(context.Background()))
}
