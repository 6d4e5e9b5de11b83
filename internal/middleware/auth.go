package middleware

import (
	"context"
	"net/http"
	"strings"

	"babysteps-backend/internal/models"
	"babysteps-backend/internal/services"
)

type contextKey string

const userKey contextKey = "user"

// SessionCookieName is the cookie the auth provider stores its opaque
// session token in.
const SessionCookieName = "babysteps_session"

// AuthMiddleware resolves the request's session token (cookie or Bearer
// header) into a user and injects it into the context. Requests without a
// valid session are rejected.
func AuthMiddleware(sessionService *services.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				respondError(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			user, err := sessionService.Resolve(r.Context(), token)
			if err != nil {
				respondError(w, "Invalid session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	authHeader := r.Header.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// GetUser extracts the authenticated user from context
func GetUser(ctx context.Context) *models.User {
	user, ok := ctx.Value(userKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetUserID extracts the authenticated user's id from context
func GetUserID(ctx context.Context) string {
	if user := GetUser(ctx); user != nil {
		return user.ID
	}
	return ""
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
