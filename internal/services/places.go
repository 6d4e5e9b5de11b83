package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const placesAutocompleteURL = "https://places.googleapis.com/v1/places:autocomplete"

// Suggestion is one place candidate returned to the client.
type Suggestion struct {
	PlaceID       string `json:"place_id"`
	MainText      string `json:"main_text"`
	SecondaryText string `json:"secondary_text"`
}

// PlacesService proxies autocomplete queries to the Google Places API.
// Without a configured key, or on any upstream failure, it degrades to an
// empty suggestion list so the enclosing page never breaks.
type PlacesService struct {
	apiKey     string
	appURL     string
	endpoint   string
	httpClient *http.Client
}

// NewPlacesService creates a new places service
func NewPlacesService(apiKey, appURL string) *PlacesService {
	return &PlacesService{
		apiKey:     apiKey,
		appURL:     appURL,
		endpoint:   placesAutocompleteURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type placesRequest struct {
	Input        string `json:"input"`
	SessionToken string `json:"sessionToken,omitempty"`
}

type placesResponse struct {
	Suggestions []struct {
		PlacePrediction struct {
			PlaceID string `json:"placeId"`
			StructuredFormat struct {
				MainText struct {
					Text string `json:"text"`
				} `json:"mainText"`
				SecondaryText struct {
					Text string `json:"text"`
				} `json:"secondaryText"`
			} `json:"structuredFormat"`
		} `json:"placePrediction"`
	} `json:"suggestions"`
}

// Autocomplete forwards a free-text query to the places provider.
func (s *PlacesService) Autocomplete(ctx context.Context, input, sessionToken string) ([]Suggestion, error) {
	if s.apiKey == "" || input == "" {
		return []Suggestion{}, nil
	}

	payload, err := json.Marshal(placesRequest{Input: input, SessionToken: sessionToken})
	if err != nil {
		return nil, fmt.Errorf("failed to encode places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", s.apiKey)
	req.Header.Set("Referer", s.appURL)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Warn().Err(err).Msg("Places request failed")
		return []Suggestion{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Msg("Places API returned an error")
		return []Suggestion{}, nil
	}

	var decoded placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Warn().Err(err).Msg("Failed to decode places response")
		return []Suggestion{}, nil
	}

	suggestions := make([]Suggestion, 0, len(decoded.Suggestions))
	for _, item := range decoded.Suggestions {
		p := item.PlacePrediction
		suggestions = append(suggestions, Suggestion{
			PlaceID:       p.PlaceID,
			MainText:      p.StructuredFormat.MainText.Text,
			SecondaryText: p.StructuredFormat.SecondaryText.Text,
		})
	}
	return suggestions, nil
}
