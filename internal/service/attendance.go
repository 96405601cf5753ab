package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alsadi22/swaedfirebase-sub001/internal/actioncode"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/geo"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository"
)

var (
	ErrInvalidCode         = actioncode.ErrInvalidCode
	ErrEventNotFound       = repository.ErrEventNotFound
	ErrLocationUnavailable = errors.New("location unavailable")
	ErrAlreadyCheckedIn    = repository.ErrAlreadyCheckedIn
	ErrAlreadyCheckedOut   = repository.ErrAlreadyCheckedOut
	ErrNoCheckInRecord     = repository.ErrNoCheckInRecord
	ErrAttendanceNotFound  = repository.ErrAttendanceNotFound
)

// GeofenceViolationError reports a claimed location outside the event's
// geofence, carrying the measured distance so the caller can show how far
// away the volunteer is.
type GeofenceViolationError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceViolationError) Error() string {
	return fmt.Sprintf("location is %.0fm from the venue, outside the %.0fm geofence", e.DistanceMeters, e.RadiusMeters)
}

const notifyTimeout = 5 * time.Second

type AttendanceRepository interface {
	CheckIn(ctx context.Context, eventID, volunteerID uint, entry domain.CheckEntry) (domain.Attendance, error)
	CheckOut(ctx context.Context, eventID, volunteerID uint, entry domain.CheckEntry, hours func(checkInAt time.Time) float64) (domain.Attendance, error)
	FindByEventAndVolunteer(ctx context.Context, eventID, volunteerID uint) (domain.Attendance, error)
	FindByVolunteerID(ctx context.Context, volunteerID uint) ([]domain.Attendance, error)
}

type AttendanceEventRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Event, error)
}

// Notifier hands completed transitions to the external notification
// collaborator. Dispatch failures never roll back a transition.
type Notifier interface {
	Notify(ctx context.Context, notification domain.Notification) error
}

type AttendanceService struct {
	repo     AttendanceRepository
	events   AttendanceEventRepository
	notifier Notifier
	now      func() time.Time
}

func NewAttendanceService(repo AttendanceRepository, events AttendanceEventRepository, notifier Notifier) *AttendanceService {
	return &AttendanceService{
		repo:     repo,
		events:   events,
		notifier: notifier,
		now:      time.Now,
	}
}

type CheckInResult struct {
	Attendance     domain.Attendance
	DistanceMeters float64
}

type CheckOutResult struct {
	Attendance     domain.Attendance
	HoursCompleted float64
	DistanceMeters float64
}

// CheckIn drives the NOT_CHECKED_IN -> CHECKED_IN transition for the
// volunteer against the event resolved from the scanned code. The claimed
// location must pass the event's geofence, or be explicitly overridden
// where the event permits it.
func (s *AttendanceService) CheckIn(
	ctx context.Context,
	volunteerID uint,
	rawCode string,
	location *domain.Coordinates,
	manualOverride bool,
) (CheckInResult, error) {
	event, err := s.resolveEvent(ctx, rawCode, actioncode.ActionCheckIn)
	if err != nil {
		return CheckInResult{}, err
	}

	entry, distance, err := s.verifyLocation(event, location, manualOverride)
	if err != nil {
		return CheckInResult{}, err
	}

	attendance, err := s.repo.CheckIn(ctx, event.ID, volunteerID, entry)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyCheckedIn) {
			return CheckInResult{}, ErrAlreadyCheckedIn
		}

		return CheckInResult{}, fmt.Errorf("s.repo.CheckIn -> %w", err)
	}

	s.dispatch(domain.NotificationCheckedIn, event.ID, volunteerID, entry.Timestamp)

	return CheckInResult{
		Attendance:     attendance,
		DistanceMeters: distance,
	}, nil
}

// CheckOut drives CHECKED_IN -> CHECKED_OUT. On success the session hours
// are derived from the stored check-in time and committed together with the
// transition and the volunteer's running totals.
func (s *AttendanceService) CheckOut(
	ctx context.Context,
	volunteerID uint,
	rawCode string,
	location *domain.Coordinates,
	manualOverride bool,
) (CheckOutResult, error) {
	event, err := s.resolveEvent(ctx, rawCode, actioncode.ActionCheckOut)
	if err != nil {
		return CheckOutResult{}, err
	}

	entry, distance, err := s.verifyLocation(event, location, manualOverride)
	if err != nil {
		return CheckOutResult{}, err
	}

	attendance, err := s.repo.CheckOut(ctx, event.ID, volunteerID, entry, func(checkInAt time.Time) float64 {
		return SessionHours(checkInAt, entry.Timestamp)
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoCheckInRecord):
			return CheckOutResult{}, ErrNoCheckInRecord
		case errors.Is(err, repository.ErrAlreadyCheckedOut):
			return CheckOutResult{}, ErrAlreadyCheckedOut
		}

		return CheckOutResult{}, fmt.Errorf("s.repo.CheckOut -> %w", err)
	}

	s.dispatch(domain.NotificationCheckedOut, event.ID, volunteerID, entry.Timestamp)

	return CheckOutResult{
		Attendance:     attendance,
		HoursCompleted: attendance.HoursCompleted,
		DistanceMeters: distance,
	}, nil
}

// GetEventStatus reports the volunteer's attendance for one event. A
// volunteer with no record yet is NOT_CHECKED_IN, not an error.
func (s *AttendanceService) GetEventStatus(ctx context.Context, eventID, volunteerID uint) (domain.Attendance, error) {
	attendance, err := s.repo.FindByEventAndVolunteer(ctx, eventID, volunteerID)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceNotFound) {
			return domain.Attendance{
				EventID:     eventID,
				VolunteerID: volunteerID,
				Status:      domain.StatusNotCheckedIn,
			}, nil
		}

		return domain.Attendance{}, fmt.Errorf("s.repo.FindByEventAndVolunteer -> %w", err)
	}

	return attendance, nil
}

func (s *AttendanceService) GetVolunteerAttendance(ctx context.Context, volunteerID uint) ([]domain.Attendance, error) {
	attendances, err := s.repo.FindByVolunteerID(ctx, volunteerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByVolunteerID -> %w", err)
	}

	return attendances, nil
}

// resolveEvent decodes the scanned code, checks the intended action, and
// binds the code to exactly one known event. A code whose event exists but
// whose token no longer matches is treated as invalid, not as a state
// error.
func (s *AttendanceService) resolveEvent(ctx context.Context, rawCode string, action actioncode.Action) (domain.Event, error) {
	code, err := actioncode.Decode(rawCode)
	if err != nil {
		return domain.Event{}, ErrInvalidCode
	}
	if code.Action != action {
		return domain.Event{}, ErrInvalidCode
	}

	event, err := s.events.FindByID(ctx, code.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.events.FindByID -> %w", err)
	}

	expected := event.CheckInToken
	if action == actioncode.ActionCheckOut {
		expected = event.CheckOutToken
	}
	if strings.TrimSpace(rawCode) != expected {
		return domain.Event{}, ErrInvalidCode
	}

	return event, nil
}

// verifyLocation applies the geofence policy. The boundary is inclusive. A
// missing location is its own error; the validator never substitutes a
// default. A manual override is honored only when explicitly requested and
// permitted by a non-strict event, and is recorded on the entry.
func (s *AttendanceService) verifyLocation(
	event domain.Event,
	location *domain.Coordinates,
	manualOverride bool,
) (domain.CheckEntry, float64, error) {
	if location == nil {
		return domain.CheckEntry{}, 0, ErrLocationUnavailable
	}

	validation := geo.Validate(*location, event.Venue, event.Geofence.RadiusMeters)

	method := domain.MethodGPS
	if !validation.Valid {
		allowed := !event.Geofence.StrictMode && event.Geofence.AllowManualOverride && manualOverride
		if !allowed {
			return domain.CheckEntry{}, 0, &GeofenceViolationError{
				DistanceMeters: validation.DistanceMeters,
				RadiusMeters:   event.Geofence.RadiusMeters,
			}
		}
		method = domain.MethodManual
	}

	return domain.CheckEntry{
		Timestamp: s.now().UTC(),
		Location:  *location,
		Method:    method,
	}, validation.DistanceMeters, nil
}

// dispatch raises the outbound notification without blocking the request.
// Failures are logged and never retried here.
func (s *AttendanceService) dispatch(typ domain.NotificationType, eventID, volunteerID uint, at time.Time) {
	notification := domain.Notification{
		ID:          uuid.NewString(),
		Type:        typ,
		EventID:     eventID,
		VolunteerID: volunteerID,
		Timestamp:   at,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := s.notifier.Notify(ctx, notification); err != nil {
			zap.L().Warn("notification dispatch failed",
				zap.String("type", string(typ)),
				zap.Uint("event_id", eventID),
				zap.Uint("volunteer_id", volunteerID),
				zap.Error(err),
			)
		}
	}()
}
