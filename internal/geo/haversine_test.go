package geo

import (
	"math"
	"testing"
)

func TestHaversineSymmetry(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"berlin pair", 52.5200, 13.4050, 52.5065, 13.1445},
		{"hemisphere crossing", -33.8688, 151.2093, 52.5200, 13.4050},
		{"close points", 52.5000, 13.4000, 52.5010, 13.4010},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := HaversineKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			ba := HaversineKm(tc.lat2, tc.lon2, tc.lat1, tc.lon1)
			if math.Abs(ab-ba) > 1e-9 {
				t.Fatalf("asymmetric distance: %f vs %f", ab, ba)
			}
		})
	}
}

func TestHaversineIdenticalPoints(t *testing.T) {
	if d := HaversineKm(52.52, 13.405, 52.52, 13.405); d != 0 {
		t.Fatalf("expected zero distance, got %f", d)
	}
}

func TestHaversineKnownDistance(t *testing.T) {
	// Berlin center to Potsdam center, roughly 26-27 km
	d := HaversineKm(52.5200, 13.4050, 52.3906, 13.0645)
	if d < 25 || d > 29 {
		t.Fatalf("unexpected Berlin-Potsdam distance: %f", d)
	}
}

func TestFallbackEtaMinutes(t *testing.T) {
	cases := []struct {
		name string
		km   float64
		want int
	}{
		{"zero", 0, 0},
		{"negative clamps", -3, 0},
		{"two km", 2, 4},
		{"rounds half up", 2.25, 5},
		{"ten km", 10, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FallbackEtaMinutes(tc.km); got != tc.want {
				t.Fatalf("expected %d got %d", tc.want, got)
			}
		})
	}
}
