package handlers

import (
	"encoding/json"
	"net/http"

	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// DescriptionHandler handles daily-description HTTP requests
type DescriptionHandler struct {
	descService *services.DescriptionService
}

// NewDescriptionHandler creates a new daily-description handler
func NewDescriptionHandler(descService *services.DescriptionService) *DescriptionHandler {
	return &DescriptionHandler{descService: descService}
}

// GetDescription handles GET /api/v1/babies/{baby_id}/descriptions/{date}
func (h *DescriptionHandler) GetDescription(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")
	date := chi.URLParam(r, "date")

	desc, err := h.descService.Get(r.Context(), userID, babyID, date)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Str("date", date).
			Msg("Failed to get daily description")
		respondServiceError(w, err)
		return
	}
	if desc == nil {
		respondJSON(w, map[string]any{"description": nil}, http.StatusOK)
		return
	}
	respondJSON(w, map[string]any{"description": desc}, http.StatusOK)
}

// UpsertDescription handles PUT /api/v1/babies/{baby_id}/descriptions/{date}
func (h *DescriptionHandler) UpsertDescription(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")
	date := chi.URLParam(r, "date")

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	desc, err := h.descService.Upsert(r.Context(), userID, babyID, date, req.Description)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Str("date", date).
			Msg("Failed to upsert daily description")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, desc, http.StatusOK)
}
