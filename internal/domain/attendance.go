package domain

import "time"

type AttendanceStatus string

const (
	StatusNotCheckedIn AttendanceStatus = "NOT_CHECKED_IN"
	StatusCheckedIn    AttendanceStatus = "CHECKED_IN"
	StatusCheckedOut   AttendanceStatus = "CHECKED_OUT"
)

// VerificationMethod records how a volunteer's presence was verified.
type VerificationMethod string

const (
	MethodGPS    VerificationMethod = "GPS"
	MethodManual VerificationMethod = "MANUAL"
)

// CheckEntry captures one verified scan (check-in or check-out).
type CheckEntry struct {
	Timestamp time.Time          `json:"timestamp"`
	Location  Coordinates        `json:"location"`
	Method    VerificationMethod `json:"method"`
}

// Attendance is the per-(event, volunteer) record driven through
// NOT_CHECKED_IN -> CHECKED_IN -> CHECKED_OUT. Status never regresses.
type Attendance struct {
	ID          uint             `json:"id"`
	EventID     uint             `json:"event_id"`
	VolunteerID uint             `json:"volunteer_id"`
	Status      AttendanceStatus `json:"status"`

	CheckIn  *CheckEntry `json:"check_in,omitempty"`
	CheckOut *CheckEntry `json:"check_out,omitempty"`

	// HoursCompleted is set exactly once, at the check-out transition.
	HoursCompleted float64 `json:"hours_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
