package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// StepHandler handles step-related HTTP requests
type StepHandler struct {
	stepService *services.StepService
}

// NewStepHandler creates a new step handler
func NewStepHandler(stepService *services.StepService) *StepHandler {
	return &StepHandler{
		stepService: stepService,
	}
}

// CreateStep handles POST /api/v1/steps
func (h *StepHandler) CreateStep(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input services.StepInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	step, err := h.stepService.Create(r.Context(), userID, input)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", input.BabyID).Msg("Failed to create step")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, step, http.StatusCreated)
}

// CreateBulkSteps handles POST /api/v1/steps/bulk
func (h *StepHandler) CreateBulkSteps(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req struct {
		Steps []services.StepInput `json:"steps"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Steps) == 0 {
		respondError(w, "steps is required", http.StatusBadRequest)
		return
	}

	steps, err := h.stepService.CreateBulk(r.Context(), userID, req.Steps)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Int("count", len(req.Steps)).Msg("Failed to create steps in bulk")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, map[string]any{"steps": steps}, http.StatusCreated)
}

// ListSteps handles GET /api/v1/babies/{baby_id}/steps.
// Without parameters it returns the flat step list; ?date=YYYY-MM-DD
// narrows to one day; ?month=N returns the day groups of that month
// bucket plus the month pills.
func (h *StepHandler) ListSteps(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	if date := r.URL.Query().Get("date"); date != "" {
		steps, err := h.stepService.ListByBabyAndDate(r.Context(), userID, babyID, date)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Str("date", date).
				Msg("Failed to list steps for day")
			respondServiceError(w, err)
			return
		}
		respondJSON(w, map[string]any{"steps": steps}, http.StatusOK)
		return
	}

	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		steps, err := h.stepService.ListByBaby(r.Context(), userID, babyID)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Msg("Failed to list steps")
			respondServiceError(w, err)
			return
		}
		respondJSON(w, map[string]any{"steps": steps}, http.StatusOK)
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 0 {
		respondError(w, "Invalid month index", http.StatusBadRequest)
		return
	}

	groups, pills, err := h.stepService.Timeline(r.Context(), userID, babyID, month, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Int("month", month).
			Msg("Failed to build timeline")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, map[string]any{"days": groups, "months": pills}, http.StatusOK)
}

// DeleteStep handles DELETE /api/v1/steps/{step_id}
func (h *StepHandler) DeleteStep(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	stepID := chi.URLParam(r, "step_id")

	if err := h.stepService.Delete(r.Context(), userID, stepID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("step_id", stepID).Msg("Failed to delete step")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Heatmap handles GET /api/v1/babies/{baby_id}/heatmap
func (h *StepHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	babyID := chi.URLParam(r, "baby_id")

	weeks, err := h.stepService.Heatmap(r.Context(), userID, babyID, time.Now())
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("baby_id", babyID).Msg("Failed to build heatmap")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, map[string]any{"weeks": weeks}, http.StatusOK)
}
