package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"route-compare/internal/models"
)

// Fetcher is the contract both routing providers satisfy. A failed call is
// reported data, not an error: the result carries the failure reason in
// Status and leaves the route fields absent, so the batch keeps going.
type Fetcher interface {
	Fetch(ctx context.Context, origin, dest models.Coordinate) models.ProviderResult
}

const defaultTimeout = 30 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultTimeout}
}

// elapsedMs returns wall-clock milliseconds since start, rounded to 2 decimals.
func elapsedMs(start time.Time) float64 {
	ms := float64(time.Since(start)) / float64(time.Millisecond)
	return float64(int64(ms*100+0.5)) / 100
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func latLng(c models.Coordinate) string {
	return fmt.Sprintf("%s,%s", formatCoord(c.Lat), formatCoord(c.Lng))
}
