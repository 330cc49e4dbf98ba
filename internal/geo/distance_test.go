package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		delta                  float64
	}{
		{name: "identical points", lat1: 12.97, lon1: 77.59, lat2: 12.97, lon2: 77.59, want: 0, delta: 1e-9},
		{name: "one degree of longitude on the equator", lat1: 0, lon1: 0, lat2: 0, lon2: 1, want: 111.195, delta: 0.01},
		{name: "five degrees of longitude on the equator", lat1: 0, lon1: 0, lat2: 0, lon2: 5, want: 555.975, delta: 0.01},
		{name: "pole to pole", lat1: 90, lon1: 0, lat2: -90, lon2: 0, want: 20015.087, delta: 0.01},
		{name: "london to paris", lat1: 51.5074, lon1: -0.1278, lat2: 48.8566, lon2: 2.3522, want: 343.5, delta: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.delta)
			assert.GreaterOrEqual(t, got, 0.0)
		})
	}
}

func TestDistance_Symmetric(t *testing.T) {
	points := [][2]float64{{0, 0}, {12.9716, 77.5946}, {-33.8688, 151.2093}, {40.7128, -74.006}, {89.9, 179.9}}
	for _, a := range points {
		for _, b := range points {
			ab := Distance(a[0], a[1], b[0], b[1])
			ba := Distance(b[0], b[1], a[0], a[1])
			assert.InDelta(t, ab, ba, 1e-9)
		}
	}
}

func TestDistanceWithRadius(t *testing.T) {
	// a quarter of a unit circle
	assert.InDelta(t, 1.5707963, DistanceWithRadius(1, 0, 0, 0, 90), 1e-6)
}
