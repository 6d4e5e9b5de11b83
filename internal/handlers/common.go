package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"babysteps-backend/internal/repository"
	"babysteps-backend/internal/services"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, payload any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondServiceError maps a service failure onto the wire. Validation
// rejections keep their message as a 400. Missing and not-owned rows are
// indistinguishable 404s; everything else is a generic 500 so internal
// detail never leaks.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondError(w, verr.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, repository.ErrNotFound) {
		respondError(w, "Not found", http.StatusNotFound)
		return
	}
	respondError(w, "Something went wrong, please try again", http.StatusInternalServerError)
}
