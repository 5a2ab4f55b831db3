package domain

import "math"

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Offset returns the point shifted by the given deltas in degrees.
func (p GeoPoint) Offset(dLat, dLon float64) GeoPoint {
	return GeoPoint{Lat: p.Lat + dLat, Lon: p.Lon + dLon}
}

// Valid reports whether both components are finite and inside WGS 84 range.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

