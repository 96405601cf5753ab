package geo

import "github.com/alsadi22/swaedfirebase-sub001/internal/domain"

// Validation is the outcome of a geofence check. The measured distance is
// always reported so callers can show "you are N meters away".
type Validation struct {
	Valid          bool
	DistanceMeters float64
}

// Validate checks a claimed location against a circular geofence around the
// venue. A distance exactly equal to the radius counts as inside.
func Validate(claimed, venue domain.Coordinates, radiusMeters float64) Validation {
	d := Distance(claimed, venue)

	return Validation{
		Valid:          d <= radiusMeters,
		DistanceMeters: d,
	}
}
