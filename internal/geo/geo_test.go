package geo

import (
	"errors"
	"math"
	"testing"

	"route-compare/internal/models"
)

func TestDecode_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		gh      string
		wantErr bool
		lat     float64
		lng     float64
		tol     float64
	}{
		{name: "san francisco cell", gh: "9q8yy9mur", lat: 37.76, lng: -122.42, tol: 0.05},
		{name: "uppercase accepted", gh: "9Q8YY9MUR", lat: 37.76, lng: -122.42, tol: 0.05},
		{name: "single char", gh: "u", lat: 67.5, lng: 22.5, tol: 0.01},
		{name: "empty", gh: "", wantErr: true},
		{name: "invalid char a", gh: "9q8ay", wantErr: true},
		{name: "invalid char i", gh: "9qi8y", wantErr: true},
		{name: "whitespace", gh: "9q8 y", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.gh)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tt.gh, got)
				}
				var de *DecodeError
				if !errors.As(err, &de) {
					t.Errorf("error is %T, want *DecodeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode(%q) error: %v", tt.gh, err)
			}
			if math.Abs(got.Lat-tt.lat) > tt.tol || math.Abs(got.Lng-tt.lng) > tt.tol {
				t.Errorf("Decode(%q) = %+v, want near (%v, %v)", tt.gh, got, tt.lat, tt.lng)
			}
		})
	}
}

// Decoding then re-encoding at the same precision must land back in the
// original cell: the re-encoded string decodes to the same center.
func TestDecode_EncodeRoundTrip(t *testing.T) {
	hashes := []string{"9q8yy9mur", "u4pruydqqvj", "s0000", "ezs42", "gbsuv"}
	for _, gh := range hashes {
		center, err := Decode(gh)
		if err != nil {
			t.Fatalf("Decode(%q) error: %v", gh, err)
		}
		re := Encode(center, uint(len(gh)))
		if re != gh {
			t.Errorf("round trip %q -> %+v -> %q", gh, center, re)
		}
	}
}

func TestHaversine(t *testing.T) {
	tests := []struct {
		name string
		a, b models.Coordinate
		want float64
		tol  float64
	}{
		{name: "zero distance", a: models.Coordinate{Lat: 41, Lng: 29}, b: models.Coordinate{Lat: 41, Lng: 29}, want: 0, tol: 0.001},
		{name: "one degree latitude", a: models.Coordinate{Lat: 0, Lng: 0}, b: models.Coordinate{Lat: 1, Lng: 0}, want: 111195, tol: 100},
		{name: "sf to la", a: models.Coordinate{Lat: 37.7749, Lng: -122.4194}, b: models.Coordinate{Lat: 34.0522, Lng: -118.2437}, want: 559000, tol: 2000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("Haversine = %v, want %v +- %v", got, tt.want, tt.tol)
			}
			if rev := Haversine(tt.b, tt.a); math.Abs(rev-got) > 1e-9 {
				t.Errorf("not symmetric: %v vs %v", got, rev)
			}
		})
	}
}
