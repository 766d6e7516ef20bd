package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"route-compare/internal/models"
)

const directionsBaseURL = "https://maps.googleapis.com/maps/api/directions/json"

// DirectionsClient calls the legacy Directions API: a GET with origin,
// destination and key as query parameters.
type DirectionsClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewDirectionsClient(apiKey string) *DirectionsClient {
	return &DirectionsClient{
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		baseURL:    directionsBaseURL,
	}
}

type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"`
			} `json:"distance"`
			Duration struct {
				Text  string  `json:"text"`
				Value float64 `json:"value"`
			} `json:"duration"`
			StartAddress string `json:"start_address"`
			EndAddress   string `json:"end_address"`
		} `json:"legs"`
	} `json:"routes"`
}

func (c *DirectionsClient) Fetch(ctx context.Context, origin, dest models.Coordinate) models.ProviderResult {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("origin", latLng(origin))
	q.Set("destination", latLng(dest))
	q.Set("language", "en-US")

	start := time.Now()
	result := models.ProviderResult{}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		result.Status = fmt.Sprintf("REQUEST_FAILED: %v", err)
		result.ResponseTimeMs = elapsedMs(start)
		return result
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Status = fmt.Sprintf("REQUEST_FAILED: %v", err)
		result.ResponseTimeMs = elapsedMs(start)
		return result
	}
	defer resp.Body.Close()

	var body directionsResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&body)
	result.ResponseTimeMs = elapsedMs(start)

	if decodeErr != nil {
		if resp.StatusCode >= 300 {
			result.Status = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		} else {
			result.Status = fmt.Sprintf("PARSE_FAILED: %v", decodeErr)
		}
		return result
	}

	result.Status = body.Status
	if result.Status == "" {
		result.Status = fmt.Sprintf("HTTP_%d", resp.StatusCode)
	}
	if !result.OK() {
		return result
	}

	// First route, first leg. The API orders candidates best-first.
	if len(body.Routes) == 0 || len(body.Routes[0].Legs) == 0 {
		result.Status = "ZERO_RESULTS"
		return result
	}
	route := body.Routes[0]
	leg := route.Legs[0]

	result.DistanceMeters = models.Float(leg.Distance.Value)
	result.DistanceText = leg.Distance.Text
	result.DurationSeconds = models.Float(leg.Duration.Value)
	result.DurationText = leg.Duration.Text
	result.Polyline = route.OverviewPolyline.Points
	result.StartAddress = leg.StartAddress
	result.EndAddress = leg.EndAddress
	return result
}
