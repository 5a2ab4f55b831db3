package geospatial

import "math"

const (
	earthRadiusKm = 6371.0

	// metersPerDegree is the flat-earth approximation used for marker offsets.
	metersPerDegree = 111000.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c * 1000 // meters
}

// BoundingBox returns a bounding box around a point with the given radius in meters.
func BoundingBox(lat, lon, radiusMeters float64) (minLat, minLon, maxLat, maxLon float64) {
	latDelta := radiusMeters / 111320.0
	lonDelta := radiusMeters / (111320.0 * math.Cos(toRad(lat)))

	return lat - latDelta, lon - lonDelta, lat + latDelta, lon + lonDelta
}

// Project moves a point distanceMeters along bearingDeg (0 = north, clockwise)
// using a flat-earth approximation. Good enough for sub-kilometre decoration.
func Project(lat, lon, distanceMeters, bearingDeg float64) (float64, float64) {
	b := toRad(bearingDeg)
	dLat := distanceMeters / metersPerDegree * math.Cos(b)
	dLon := distanceMeters / (metersPerDegree * math.Cos(toRad(lat))) * math.Sin(b)
	return lat + dLat, lon + dLon
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
