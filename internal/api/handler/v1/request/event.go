package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`

	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	RadiusMeters        float64 `json:"radius_meters"`
	StrictMode          *bool   `json:"strict_mode"`
	AllowManualOverride bool    `json:"allow_manual_override"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 500)),
		validation.Field(&req.Latitude, validation.NotNil, validation.Min(-90.0), validation.Max(90.0)),
		validation.Field(&req.Longitude, validation.NotNil, validation.Min(-180.0), validation.Max(180.0)),
		validation.Field(&req.RadiusMeters, validation.Min(0.0), validation.Max(10000.0)),
	)
}
