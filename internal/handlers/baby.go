package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"babysteps-backend/internal/dateutil"
	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/models"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// BabyCookieName is the client-readable preference token naming the
// active baby. It is a hint, not a credential; every use re-validates it
// against the requesting user's own babies.
const BabyCookieName = "babysteps_current_baby"

const babyCookieMaxAge = 30 * 24 * 60 * 60

// BabyHandler handles baby-related HTTP requests
type BabyHandler struct {
	babyService *services.BabyService
}

// NewBabyHandler creates a new baby handler
func NewBabyHandler(babyService *services.BabyService) *BabyHandler {
	return &BabyHandler{babyService: babyService}
}

func setBabyCookie(w http.ResponseWriter, babyID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     BabyCookieName,
		Value:    babyID,
		Path:     "/",
		MaxAge:   babyCookieMaxAge,
		HttpOnly: false, // the client-side baby switcher reads it
		SameSite: http.SameSiteLaxMode,
	})
}

func clearBabyCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     BabyCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
	})
}

func babyCookieValue(r *http.Request) string {
	if c, err := r.Cookie(BabyCookieName); err == nil {
		return c.Value
	}
	return ""
}

type babyResponse struct {
	*models.Baby
	AgeLabel string `json:"age_label,omitempty"`
}

func toBabyResponse(baby *models.Baby) babyResponse {
	resp := babyResponse{Baby: baby}
	if birth, err := dateutil.ParseDate(baby.Birthdate); err == nil {
		resp.AgeLabel = dateutil.AgeLabel(birth, time.Now())
	}
	return resp
}

// ListBabies handles GET /api/v1/babies
func (h *BabyHandler) ListBabies(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	babies, err := h.babyService.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list babies")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, map[string]any{"babies": babies}, http.StatusOK)
}

// CreateBaby handles POST /api/v1/babies
func (h *BabyHandler) CreateBaby(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input services.CreateBabyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	baby, err := h.babyService.Create(r.Context(), userID, input)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create baby")
		respondServiceError(w, err)
		return
	}

	setBabyCookie(w, baby.ID)

	log.Info().Str("user_id", userID).Str("baby_id", baby.ID).Msg("Baby created")
	respondJSON(w, baby, http.StatusCreated)
}

// GetCurrentBaby handles GET /api/v1/babies/current
func (h *BabyHandler) GetCurrentBaby(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	baby, err := h.babyService.ResolveCurrent(r.Context(), userID, babyCookieValue(r))
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to resolve current baby")
		respondServiceError(w, err)
		return
	}
	if baby == nil {
		respondError(w, "No baby found", http.StatusNotFound)
		return
	}
	respondJSON(w, toBabyResponse(baby), http.StatusOK)
}

// SwitchBaby handles POST /api/v1/babies/{baby_id}/switch
func (h *BabyHandler) SwitchBaby(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	baby, err := h.babyService.Switch(r.Context(), userID, babyID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Msg("Failed to switch baby")
		respondServiceError(w, err)
		return
	}

	setBabyCookie(w, baby.ID)
	respondJSON(w, toBabyResponse(baby), http.StatusOK)
}

// UpdateBaby handles PATCH /api/v1/babies/{baby_id}
func (h *BabyHandler) UpdateBaby(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	var input services.UpdateBabyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	baby, err := h.babyService.Update(r.Context(), userID, babyID, input)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Msg("Failed to update baby")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, baby, http.StatusOK)
}

// DeleteBaby handles DELETE /api/v1/babies/{baby_id}
func (h *BabyHandler) DeleteBaby(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	if err := h.babyService.Delete(r.Context(), userID, babyID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Msg("Failed to delete baby")
		respondServiceError(w, err)
		return
	}

	if babyCookieValue(r) == babyID {
		clearBabyCookie(w)
	}

	log.Info().Str("user_id", userID).Str("baby_id", babyID).Msg("Baby deleted")
	w.WriteHeader(http.StatusNoContent)
}
