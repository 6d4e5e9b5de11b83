package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/models"
	"babysteps-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type userLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthHandler triggers the transactional auth emails. Credentials and
// session issuance stay with the external auth provider.
type AuthHandler struct {
	mailer   *services.MailerService
	userRepo userLookup
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(mailer *services.MailerService, userRepo userLookup) *AuthHandler {
	return &AuthHandler{
		mailer:   mailer,
		userRepo: userRepo,
	}
}

// SendVerification handles POST /api/v1/auth/send-verification — re-sends
// the email-verification link to the authenticated user.
func (h *AuthHandler) SendVerification(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	if user == nil {
		respondError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	if user.EmailVerified {
		respondError(w, "Email already verified", http.StatusBadRequest)
		return
	}

	if err := h.mailer.SendVerification(r.Context(), user); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send verification email")
		respondError(w, "Could not send email, please try again", http.StatusInternalServerError)
		return
	}
	respondJSON(w, map[string]string{"status": "sent"}, http.StatusAccepted)
}

// ForgotPassword handles POST /api/v1/auth/forgot-password. The response
// is identical whether or not the email exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.userRepo.GetByEmail(r.Context(), req.Email)
	if err == nil {
		if err := h.mailer.SendPasswordReset(r.Context(), user); err != nil {
			log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to send password reset email")
		}
	}

	respondJSON(w, map[string]string{"status": "sent"}, http.StatusAccepted)
}
