package handlers

import (
	"encoding/json"
	"net/http"

	"babysteps-backend/internal/middleware"
	"babysteps-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// LocationHandler handles saved-location HTTP requests
type LocationHandler struct {
	locationService *services.LocationService
}

// NewLocationHandler creates a new saved-location handler
func NewLocationHandler(locationService *services.LocationService) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// ListLocations handles GET /api/v1/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	locations, err := h.locationService.List(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list saved locations")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, map[string]any{"locations": locations}, http.StatusOK)
}

// CreateLocation handles POST /api/v1/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input services.LocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	loc, err := h.locationService.Create(r.Context(), userID, input)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create saved location")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, loc, http.StatusCreated)
}

// DeleteLocation handles DELETE /api/v1/locations/{location_id}
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	locationID := chi.URLParam(r, "location_id")

	if err := h.locationService.Delete(r.Context(), userID, locationID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("location_id", locationID).
			Msg("Failed to delete saved location")
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
