package handlers

import (
	"net/http"

	"babysteps-backend/internal/middleware"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct{}

// NewUserHandler creates a new user handler
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /api/v1/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	respondJSON(w, user, http.StatusOK)
}
