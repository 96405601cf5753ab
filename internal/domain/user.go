package domain

import "time"

type User struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	Name     string `json:"name"`
	Role     string `json:"role"` // "volunteer" or "organizer"

	// Running aggregates, updated only as a side effect of a successful
	// check-out. Monotonically non-decreasing.
	TotalHours  float64 `json:"total_hours"`
	TotalEvents int     `json:"total_events"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
