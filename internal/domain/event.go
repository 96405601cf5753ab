package domain

import "time"

// Coordinates is a WGS84 latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Geofence is the circular boundary around an event venue used to
// validate a volunteer's physical presence.
type Geofence struct {
	RadiusMeters        float64 `json:"radius_meters"`
	StrictMode          bool    `json:"strict_mode"`
	AllowManualOverride bool    `json:"allow_manual_override"`
}

type Event struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	OrganizerID uint        `json:"organizer_id"`
	Venue       Coordinates `json:"venue"`
	Geofence    Geofence    `json:"geofence"`

	// Check-in/check-out tokens are generated once at event creation and
	// never change for the lifetime of the event. The same printed code is
	// scanned by every volunteer.
	CheckInToken  string `json:"check_in_token"`
	CheckOutToken string `json:"check_out_token"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
