package geo

import (
	"fmt"
	"math"
	"strings"

	"route-compare/internal/models"

	"github.com/mmcloughlin/geohash"
)

const base32Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// DecodeError marks a malformed geohash. Row-scoped: the caller records it
// on the output row instead of aborting the batch.
type DecodeError struct {
	Geohash string
	Reason  string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode geohash %q: %s", e.Geohash, e.Reason)
}

// Decode converts a base-32 geohash to the center coordinate of its cell.
func Decode(gh string) (models.Coordinate, error) {
	if gh == "" {
		return models.Coordinate{}, &DecodeError{Geohash: gh, Reason: "empty string"}
	}
	for _, c := range strings.ToLower(gh) {
		if !strings.ContainsRune(base32Alphabet, c) {
			return models.Coordinate{}, &DecodeError{
				Geohash: gh,
				Reason:  fmt.Sprintf("invalid character %q", c),
			}
		}
	}
	lat, lng := geohash.DecodeCenter(strings.ToLower(gh))
	return models.Coordinate{Lat: lat, Lng: lng}, nil
}

// Encode returns the geohash of a coordinate at the given character precision.
func Encode(c models.Coordinate, chars uint) string {
	return geohash.EncodeWithPrecision(c.Lat, c.Lng, chars)
}

const earthRadius = 6371000.0 // meters

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in meters.
func Haversine(a, b models.Coordinate) float64 {
	lat1Rad := toRadians(a.Lat)
	lon1Rad := toRadians(a.Lng)
	lat2Rad := toRadians(b.Lat)
	lon2Rad := toRadians(b.Lng)

	dLat := lat2Rad - lat1Rad
	dLon := lon2Rad - lon1Rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadius * c
}
