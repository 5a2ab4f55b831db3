package geospatial

import (
	"math"
	"testing"
)

func TestHaversine_ZeroDistance(t *testing.T) {
	if d := Haversine(24.8607, 67.0011, 24.8607, 67.0011); d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestHaversine_KnownDistance(t *testing.T) {
	// Boat Basin to Gillani station is roughly 11 km.
	d := Haversine(24.8182, 67.0256, 24.9090, 67.0940)
	if d < 11000 || d > 13000 {
		t.Errorf("expected ~12km, got %.0f m", d)
	}
}

func TestProject_RoundTripsDistance(t *testing.T) {
	for _, bearing := range []float64{0, 30, 90, 180, 270, 330} {
		lat, lon := Project(24.8737, 67.0737, 1000, bearing)
		d := Haversine(24.8737, 67.0737, lat, lon)
		if math.Abs(d-1000) > 20 {
			t.Errorf("bearing %.0f: expected ~1000 m, got %.1f", bearing, d)
		}
	}
}

func TestBoundingBox_ContainsCenter(t *testing.T) {
	minLat, minLon, maxLat, maxLon := BoundingBox(24.8607, 67.0011, 11132)
	if !(minLat < 24.8607 && maxLat > 24.8607 && minLon < 67.0011 && maxLon > 67.0011) {
		t.Fatal("box does not contain center")
	}
	if math.Abs((maxLat-minLat)/2-0.1) > 0.001 {
		t.Errorf("expected ~0.1 deg half-height, got %f", (maxLat-minLat)/2)
	}
}
