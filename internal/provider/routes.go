package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"route-compare/internal/models"
)

const (
	routesBaseURL = "https://routes.googleapis.com/directions/v2:computeRoutes"

	// Only the fields the comparison consumes; "*" blows up response size.
	routesFieldMask = "routes.distanceMeters,routes.duration," +
		"routes.polyline.encodedPolyline," +
		"routes.legs.distanceMeters,routes.legs.duration"
)

// RoutesClient calls the Routes API (v2 computeRoutes): a POST with a JSON
// body and a field mask header. Unlike Directions, the response has no
// top-level status string and durations arrive as "123s".
type RoutesClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

func NewRoutesClient(apiKey string) *RoutesClient {
	return &RoutesClient{
		httpClient: newHTTPClient(),
		apiKey:     apiKey,
		baseURL:    routesBaseURL,
	}
}

type routesLatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type routesWaypoint struct {
	Location struct {
		LatLng routesLatLng `json:"latLng"`
	} `json:"location"`
}

type routesRequest struct {
	Origin       routesWaypoint `json:"origin"`
	Destination  routesWaypoint `json:"destination"`
	LanguageCode string         `json:"languageCode"`
}

type routesResponse struct {
	Routes []struct {
		DistanceMeters float64 `json:"distanceMeters"`
		Duration       string  `json:"duration"`
		Polyline       struct {
			EncodedPolyline string `json:"encodedPolyline"`
		} `json:"polyline"`
	} `json:"routes"`
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func waypoint(c models.Coordinate) routesWaypoint {
	var w routesWaypoint
	w.Location.LatLng = routesLatLng{Latitude: c.Lat, Longitude: c.Lng}
	return w
}

// parseDurationSeconds extracts the numeric part of a "123s" duration string.
func parseDurationSeconds(d string) (float64, bool) {
	if !strings.HasSuffix(d, "s") {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(d, "s"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (c *RoutesClient) Fetch(ctx context.Context, origin, dest models.Coordinate) models.ProviderResult {
	payload := routesRequest{
		Origin:       waypoint(origin),
		Destination:  waypoint(dest),
		LanguageCode: "en-US",
	}

	start := time.Now()
	result := models.ProviderResult{}

	raw, err := json.Marshal(payload)
	if err != nil {
		result.Status = fmt.Sprintf("REQUEST_FAILED: %v", err)
		result.ResponseTimeMs = elapsedMs(start)
		return result
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(raw))
	if err != nil {
		result.Status = fmt.Sprintf("REQUEST_FAILED: %v", err)
		result.ResponseTimeMs = elapsedMs(start)
		return result
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-FieldMask", routesFieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		result.Status = fmt.Sprintf("REQUEST_FAILED: %v", err)
		result.ResponseTimeMs = elapsedMs(start)
		return result
	}
	defer resp.Body.Close()

	var body routesResponse
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

	if resp.StatusCode >= 300 {
		if body.Error.Status != "" {
			result.Status = body.Error.Status
		} else {
			result.Status = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		}
		return result
	}

	// First route candidate, same selection rule as the Directions client.
	if len(body.Routes) == 0 {
		result.Status = "ZERO_RESULTS"
		return result
	}
	route := body.Routes[0]

	result.Status = "OK"
	result.DistanceMeters = models.Float(route.DistanceMeters)
	result.DurationText = route.Duration
	if secs, ok := parseDurationSeconds(route.Duration); ok {
		result.DurationSeconds = models.Float(secs)
	}
	result.Polyline = route.Polyline.EncodedPolyline
	return result
}
