package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository"
)

// DefaultGeofenceRadiusMeters applies when an organizer creates an event
// without an explicit radius.
const DefaultGeofenceRadiusMeters = 500

var ErrNotEventOrganizer = errors.New("user is not the event organizer")

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error)
}

type EventAttendanceRepository interface {
	FindByEventID(ctx context.Context, eventID uint) ([]domain.Attendance, error)
}

type EventService struct {
	repo          EventRepository
	attendances   EventAttendanceRepository
	defaultRadius float64
}

func NewEventService(repo EventRepository, attendances EventAttendanceRepository, defaultRadius float64) *EventService {
	if defaultRadius <= 0 {
		defaultRadius = DefaultGeofenceRadiusMeters
	}

	return &EventService{
		repo:          repo,
		attendances:   attendances,
		defaultRadius: defaultRadius,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, organizerID uint) (domain.Event, error) {
	event.OrganizerID = organizerID
	if event.Geofence.RadiusMeters <= 0 {
		event.Geofence.RadiusMeters = s.defaultRadius
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return domain.Event{}, ErrEventNotFound
		}

		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) GetEvents(ctx context.Context) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) GetOrganizerEvents(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	events, err := s.repo.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByOrganizerID -> %w", err)
	}

	return events, nil
}

// GetEventAttendance returns the roster for an event. Only the organizer
// who owns the event may read it.
func (s *EventService) GetEventAttendance(ctx context.Context, eventID, requesterID uint) ([]domain.Attendance, error) {
	event, err := s.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.OrganizerID != requesterID {
		return nil, ErrNotEventOrganizer
	}

	attendances, err := s.attendances.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.attendances.FindByEventID -> %w", err)
	}

	return attendances, nil
}
