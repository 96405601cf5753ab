package domain

import "time"

type NotificationType string

const (
	NotificationCheckedIn  NotificationType = "VOLUNTEER_CHECKED_IN"
	NotificationCheckedOut NotificationType = "VOLUNTEER_CHECKED_OUT"
)

// Notification is the outbound event raised after a successful attendance
// transition. Delivery is handled by an external collaborator.
type Notification struct {
	ID          string           `json:"id"`
	Type        NotificationType `json:"type"`
	EventID     uint             `json:"event_id"`
	VolunteerID uint             `json:"volunteer_id"`
	Timestamp   time.Time        `json:"timestamp"`
}
