package handlers

import (
	"encoding/json"
	"net/http"

	"babysteps-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// PlacesHandler proxies place-autocomplete queries.
type PlacesHandler struct {
	placesService *services.PlacesService
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(placesService *services.PlacesService) *PlacesHandler {
	return &PlacesHandler{placesService: placesService}
}

// Autocomplete handles POST /api/v1/places/autocomplete
func (h *PlacesHandler) Autocomplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input        string `json:"input"`
		SessionToken string `json:"session_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	suggestions, err := h.placesService.Autocomplete(r.Context(), req.Input, req.SessionToken)
	if err != nil {
		// degraded results are already handled inside the service; this is
		// a request-building failure
		log.Error().Err(err).Msg("Places autocomplete failed")
		respondJSON(w, map[string]any{"suggestions": []services.Suggestion{}}, http.StatusOK)
		return
	}
	respondJSON(w, map[string]any{"suggestions": suggestions}, http.StatusOK)
}
