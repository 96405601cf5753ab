package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyCheckedIn   = errors.New("volunteer already checked in")
	ErrAlreadyCheckedOut  = errors.New("volunteer already checked out")
	ErrNoCheckInRecord    = errors.New("no check-in record for volunteer")
)

const (
	StatusCheckedIn  = "CHECKED_IN"
	StatusCheckedOut = "CHECKED_OUT"
)

type Attendance struct {
	ID uint `gorm:"primaryKey"`

	EventID     uint   `gorm:"not null;uniqueIndex:idx_attendances_event_volunteer"`
	VolunteerID uint   `gorm:"not null;uniqueIndex:idx_attendances_event_volunteer"`
	Status      string `gorm:"not null"`

	CheckInAt        *time.Time
	CheckInLatitude  *float64
	CheckInLongitude *float64
	CheckInMethod    string

	CheckOutAt        *time.Time
	CheckOutLatitude  *float64
	CheckOutLongitude *float64
	CheckOutMethod    string

	HoursCompleted *float64

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// CheckOutUpdate carries the verified check-out scan applied by
// CompleteCheckOut.
type CheckOutUpdate struct {
	At        time.Time
	Latitude  float64
	Longitude float64
	Method    string
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// InsertCheckedIn creates the attendance record in CHECKED_IN state. The
// insert is idempotent on (event_id, volunteer_id): a conflicting row means
// another request already checked this volunteer in, so exactly one of two
// concurrent inserts succeeds and the other gets ErrAlreadyCheckedIn.
func (d *AttendanceDAO) InsertCheckedIn(ctx context.Context, attendance Attendance) (Attendance, error) {
	result := d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "volunteer_id"}},
			DoNothing: true,
		}).
		Create(&attendance)
	if result.Error != nil {
		return Attendance{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Attendance{}, ErrAlreadyCheckedIn
	}

	return attendance, nil
}

// CompleteCheckOut performs the CHECKED_IN -> CHECKED_OUT transition, writes
// hours_completed and folds the derived hours into the volunteer's running
// totals, all in one transaction. The transition itself is a conditional
// update guarded on the current status, so two concurrent check-outs cannot
// both succeed; the loser observes ErrAlreadyCheckedOut.
//
// hours receives the stored check-in timestamp, which makes the computed
// value identical no matter which concurrent request reads the record.
func (d *AttendanceDAO) CompleteCheckOut(
	ctx context.Context,
	eventID, volunteerID uint,
	update CheckOutUpdate,
	hours func(checkInAt time.Time) float64,
) (Attendance, error) {
	var attendance Attendance

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.First(&attendance, "event_id = ? AND volunteer_id = ?", eventID, volunteerID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrNoCheckInRecord
			}

			return result.Error
		}

		if attendance.Status == StatusCheckedOut {
			return ErrAlreadyCheckedOut
		}
		if attendance.CheckInAt == nil {
			return ErrNoCheckInRecord
		}

		completed := hours(*attendance.CheckInAt)

		result = tx.Model(&Attendance{}).
			Where("event_id = ? AND volunteer_id = ? AND status = ?", eventID, volunteerID, StatusCheckedIn).
			Updates(map[string]interface{}{
				"status":              StatusCheckedOut,
				"check_out_at":        update.At,
				"check_out_latitude":  update.Latitude,
				"check_out_longitude": update.Longitude,
				"check_out_method":    update.Method,
				"hours_completed":     completed,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent check-out.
			return ErrAlreadyCheckedOut
		}

		result = tx.Model(&User{}).
			Where("id = ?", volunteerID).
			Updates(map[string]interface{}{
				"total_hours":  gorm.Expr("total_hours + ?", completed),
				"total_events": gorm.Expr("total_events + ?", 1),
			})
		if result.Error != nil {
			return result.Error
		}

		return tx.First(&attendance, attendance.ID).Error
	})
	if err != nil {
		return Attendance{}, err
	}

	return attendance, nil
}

func (d *AttendanceDAO) FindByEventAndVolunteer(ctx context.Context, eventID, volunteerID uint) (Attendance, error) {
	var attendance Attendance

	result := d.db.WithContext(ctx).
		First(&attendance, "event_id = ? AND volunteer_id = ?", eventID, volunteerID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Attendance{}, ErrAttendanceNotFound
		}

		return Attendance{}, result.Error
	}

	return attendance, nil
}

func (d *AttendanceDAO) FindByEventID(ctx context.Context, eventID uint) ([]Attendance, error) {
	var attendances []Attendance

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at asc").
		Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}

func (d *AttendanceDAO) FindByVolunteerID(ctx context.Context, volunteerID uint) ([]Attendance, error) {
	var attendances []Attendance

	result := d.db.WithContext(ctx).
		Where("volunteer_id = ?", volunteerID).
		Order("created_at desc").
		Find(&attendances)
	if result.Error != nil {
		return nil, result.Error
	}

	return attendances, nil
}
