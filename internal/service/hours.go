package service

import (
	"math"
	"time"
)

// SessionHours converts a verified check-in/check-out interval into
// volunteer hours. Clock skew can make the raw delta negative, so the value
// is clamped at zero before rounding to two decimal places, half up.
func SessionHours(checkIn, checkOut time.Time) float64 {
	hours := checkOut.Sub(checkIn).Hours()
	if hours < 0 {
		hours = 0
	}

	return math.Floor(hours*100+0.5) / 100
}
