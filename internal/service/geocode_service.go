package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const geoapifyReverseURL = "https://api.geoapify.com/v1/geocode/reverse"

type geoapifyReverseResponse struct {
	Results []struct {
		Formatted string `json:"formatted"`
	} `json:"results"`
}

// geocodeService resolves coordinates into a human readable address through
// Geoapify. Callers treat it as optional; a failure here never blocks the
// survey flow, the report just keeps raw coordinates.
type geocodeService struct {
	apiKey     string
	httpClient *http.Client
}

func NewGeocodeService(apiKey string) *geocodeService {
	return &geocodeService{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *geocodeService) ReverseGeocode(ctx context.Context, latitude, longitude float64) (string, error) {
	params := url.Values{}
	params.Set("lat", fmt.Sprintf("%f", latitude))
	params.Set("lon", fmt.Sprintf("%f", longitude))
	params.Set("format", "json")
	params.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geoapifyReverseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create geocode request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call geocode api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocode api returned status %d", resp.StatusCode)
	}

	var result geoapifyReverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode geocode response: %w", err)
	}
	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].Formatted, nil
}
