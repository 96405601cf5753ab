package geo

import (
	"math"

	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
)

const earthRadiusMeters = 6371000.0

// Distance returns the great-circle distance in meters between two
// coordinates, computed with the haversine formula. Accurate to within a
// few meters at geofence scale (< 10 km).
func Distance(a, b domain.Coordinates) float64 {
	lat1 := degToRad(a.Latitude)
	lat2 := degToRad(b.Latitude)
	dLat := degToRad(b.Latitude - a.Latitude)
	dLon := degToRad(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
