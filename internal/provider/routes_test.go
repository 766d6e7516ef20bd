package provider

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-compare/internal/models"
)

func testRoutesClient(serverURL string) *RoutesClient {
	return &RoutesClient{
		httpClient: &http.Client{Timeout: 2 * time.Second},
		apiKey:     "test-key",
		baseURL:    serverURL,
	}
}

const routesOKBody = `{
  "routes": [{
    "distanceMeters": 510,
    "duration": "115s",
    "polyline": {"encodedPolyline": "xyz789"}
  }]
}`

func TestRoutesClient_Fetch(t *testing.T) {
	origin := models.Coordinate{Lat: 37.76, Lng: -122.42}
	dest := models.Coordinate{Lat: 37.77, Lng: -122.41}

	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus string
		wantDist   *float64
		wantDur    *float64
	}{
		{
			name: "ok response",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(routesOKBody))
			},
			wantStatus: "OK",
			wantDist:   models.Float(510),
			wantDur:    models.Float(115),
		},
		{
			name: "empty routes",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{}`))
			},
			wantStatus: "ZERO_RESULTS",
		},
		{
			name: "google error body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"error": {"code": 403, "message": "bad key", "status": "PERMISSION_DENIED"}}`))
			},
			wantStatus: "PERMISSION_DENIED",
		},
		{
			name: "http 502 html body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("<html>bad gateway</html>"))
			},
			wantStatus: "HTTP_502",
		},
		{
			name: "fractional duration",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"routes": [{"distanceMeters": 42, "duration": "12.5s"}]}`))
			},
			wantStatus: "OK",
			wantDist:   models.Float(42),
			wantDur:    models.Float(12.5),
		},
		{
			name: "unparseable duration leaves seconds absent",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"routes": [{"distanceMeters": 42, "duration": "soon"}]}`))
			},
			wantStatus: "OK",
			wantDist:   models.Float(42),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			got := testRoutesClient(server.URL).Fetch(context.Background(), origin, dest)

			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			checkOptional(t, "distance", got.DistanceMeters, tt.wantDist)
			checkOptional(t, "duration", got.DurationSeconds, tt.wantDur)
		})
	}
}

func TestRoutesClient_Fetch_RequestShape(t *testing.T) {
	var gotMask, gotContentType string
	var gotBody routesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMask = r.Header.Get("X-Goog-FieldMask")
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Write([]byte(routesOKBody))
	}))
	defer server.Close()

	res := testRoutesClient(server.URL).Fetch(context.Background(),
		models.Coordinate{Lat: 37.5, Lng: -122.25}, models.Coordinate{Lat: 38, Lng: -122})

	if !res.OK() {
		t.Fatalf("fetch failed: %s", res.Status)
	}
	if gotMask != routesFieldMask {
		t.Errorf("field mask = %q", gotMask)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if gotBody.Origin.Location.LatLng.Latitude != 37.5 || gotBody.Origin.Location.LatLng.Longitude != -122.25 {
		t.Errorf("origin = %+v", gotBody.Origin)
	}
	if gotBody.Destination.Location.LatLng.Latitude != 38 {
		t.Errorf("destination = %+v", gotBody.Destination)
	}
	if res.Polyline != "xyz789" {
		t.Errorf("polyline = %q", res.Polyline)
	}
	if res.DurationText != "115s" {
		t.Errorf("duration text = %q", res.DurationText)
	}
}

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"123s", 123, true},
		{"0s", 0, true},
		{"12.5s", 12.5, true},
		{"123", 0, false},
		{"", 0, false},
		{"s", 0, false},
		{"12m", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDurationSeconds(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseDurationSeconds(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
