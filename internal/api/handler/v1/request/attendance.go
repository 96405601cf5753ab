package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// ScanRequest is the body for both check-in and check-out. Coordinates are
// pointers so a missing location fix can be told apart from (0, 0); the
// server never substitutes a default location.
type ScanRequest struct {
	Code string `json:"code"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// ManualOverride must be requested explicitly; it is honored only for
	// non-strict events that allow it.
	ManualOverride bool `json:"manual_override"`
}

func (req *ScanRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.Latitude, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.Min(-180.0), validation.Max(180.0)),
	)
}

// HasLocation reports whether the client supplied a complete coordinate
// pair.
func (req *ScanRequest) HasLocation() bool {
	return req.Latitude != nil && req.Longitude != nil
}
