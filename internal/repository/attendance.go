package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository/dao"
)

var (
	ErrAttendanceNotFound = dao.ErrAttendanceNotFound
	ErrAlreadyCheckedIn   = dao.ErrAlreadyCheckedIn
	ErrAlreadyCheckedOut  = dao.ErrAlreadyCheckedOut
	ErrNoCheckInRecord    = dao.ErrNoCheckInRecord
)

type AttendanceDAO interface {
	InsertCheckedIn(ctx context.Context, attendance dao.Attendance) (dao.Attendance, error)
	CompleteCheckOut(ctx context.Context, eventID, volunteerID uint, update dao.CheckOutUpdate, hours func(checkInAt time.Time) float64) (dao.Attendance, error)
	FindByEventAndVolunteer(ctx context.Context, eventID, volunteerID uint) (dao.Attendance, error)
	FindByEventID(ctx context.Context, eventID uint) ([]dao.Attendance, error)
	FindByVolunteerID(ctx context.Context, volunteerID uint) ([]dao.Attendance, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

// CheckIn creates the record in CHECKED_IN state. Creation is idempotent
// per (event, volunteer); a duplicate attempt surfaces ErrAlreadyCheckedIn.
func (r *AttendanceRepository) CheckIn(ctx context.Context, eventID, volunteerID uint, entry domain.CheckEntry) (domain.Attendance, error) {
	at := entry.Timestamp
	lat := entry.Location.Latitude
	lng := entry.Location.Longitude

	created, err := r.dao.InsertCheckedIn(ctx, dao.Attendance{
		EventID:          eventID,
		VolunteerID:      volunteerID,
		Status:           dao.StatusCheckedIn,
		CheckInAt:        &at,
		CheckInLatitude:  &lat,
		CheckInLongitude: &lng,
		CheckInMethod:    string(entry.Method),
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.InsertCheckedIn -> %w", err)
	}

	return r.daoToDomain(created), nil
}

// CheckOut performs the CHECKED_IN -> CHECKED_OUT transition together with
// the hours write and the volunteer aggregate increments, as one unit of
// work. hours derives the session duration from the stored check-in time.
func (r *AttendanceRepository) CheckOut(
	ctx context.Context,
	eventID, volunteerID uint,
	entry domain.CheckEntry,
	hours func(checkInAt time.Time) float64,
) (domain.Attendance, error) {
	updated, err := r.dao.CompleteCheckOut(ctx, eventID, volunteerID, dao.CheckOutUpdate{
		At:        entry.Timestamp,
		Latitude:  entry.Location.Latitude,
		Longitude: entry.Location.Longitude,
		Method:    string(entry.Method),
	}, hours)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.CompleteCheckOut -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *AttendanceRepository) FindByEventAndVolunteer(ctx context.Context, eventID, volunteerID uint) (domain.Attendance, error) {
	found, err := r.dao.FindByEventAndVolunteer(ctx, eventID, volunteerID)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByEventAndVolunteer -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendanceRepository) FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEventID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *AttendanceRepository) FindByVolunteerID(ctx context.Context, volunteerID uint) ([]domain.Attendance, error) {
	found, err := r.dao.FindByVolunteerID(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByVolunteerID -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *AttendanceRepository) daosToDomain(records []dao.Attendance) []domain.Attendance {
	attendances := make([]domain.Attendance, len(records))
	for i, a := range records {
		attendances[i] = r.daoToDomain(a)
	}

	return attendances
}

func (r *AttendanceRepository) daoToDomain(a dao.Attendance) domain.Attendance {
	attendance := domain.Attendance{
		ID:          a.ID,
		EventID:     a.EventID,
		VolunteerID: a.VolunteerID,
		Status:      domain.AttendanceStatus(a.Status),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}

	if a.CheckInAt != nil {
		attendance.CheckIn = &domain.CheckEntry{
			Timestamp: *a.CheckInAt,
			Method:    domain.VerificationMethod(a.CheckInMethod),
		}
		if a.CheckInLatitude != nil && a.CheckInLongitude != nil {
			attendance.CheckIn.Location = domain.Coordinates{
				Latitude:  *a.CheckInLatitude,
				Longitude: *a.CheckInLongitude,
			}
		}
	}

	if a.CheckOutAt != nil {
		attendance.CheckOut = &domain.CheckEntry{
			Timestamp: *a.CheckOutAt,
			Method:    domain.VerificationMethod(a.CheckOutMethod),
		}
		if a.CheckOutLatitude != nil && a.CheckOutLongitude != nil {
			attendance.CheckOut.Location = domain.Coordinates{
				Latitude:  *a.CheckOutLatitude,
				Longitude: *a.CheckOutLongitude,
			}
		}
	}

	if a.HoursCompleted != nil {
		attendance.HoursCompleted = *a.HoursCompleted
	}

	return attendance
}
