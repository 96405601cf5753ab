package response

import "github.com/alsadi22/swaedfirebase-sub001/internal/domain"

type CheckInResponse struct {
	Message        string            `json:"message"`
	DistanceMeters float64           `json:"distance_meters"`
	Attendance     domain.Attendance `json:"attendance"`
}

type CheckOutResponse struct {
	Message        string            `json:"message"`
	DistanceMeters float64           `json:"distance_meters"`
	HoursCompleted float64           `json:"hours_completed"`
	Attendance     domain.Attendance `json:"attendance"`
}
