package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alsadi22/swaedfirebase-sub001/internal/actioncode"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/repository/dao"
)

var ErrEventNotFound = dao.ErrEventNotFound

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event, tokens dao.TokenGenerator) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context) ([]dao.Event, error)
	FindByOrganizerID(ctx context.Context, organizerID uint) ([]dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

// Create persists the event and issues its immutable action tokens. Tokens
// embed the generated event ID so a scanned code always resolves to exactly
// one event.
func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	issuedAt := time.Now().UTC()

	created, err := r.dao.Insert(ctx, r.domainToDao(event), func(eventID uint) (string, string) {
		return actioncode.Encode(actioncode.ActionCheckIn, eventID, issuedAt),
			actioncode.Encode(actioncode.ActionCheckOut, eventID, issuedAt)
	})
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) FindByOrganizerID(ctx context.Context, organizerID uint) ([]domain.Event, error) {
	found, err := r.dao.FindByOrganizerID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByOrganizerID -> %w", err)
	}

	events := make([]domain.Event, len(found))
	for i, e := range found {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                  e.ID,
		Title:               e.Title,
		Description:         e.Description,
		OrganizerID:         e.OrganizerID,
		VenueLatitude:       e.Venue.Latitude,
		VenueLongitude:      e.Venue.Longitude,
		RadiusMeters:        e.Geofence.RadiusMeters,
		StrictMode:          e.Geofence.StrictMode,
		AllowManualOverride: e.Geofence.AllowManualOverride,
		CheckInToken:        e.CheckInToken,
		CheckOutToken:       e.CheckOutToken,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		OrganizerID: e.OrganizerID,
		Venue: domain.Coordinates{
			Latitude:  e.VenueLatitude,
			Longitude: e.VenueLongitude,
		},
		Geofence: domain.Geofence{
			RadiusMeters:        e.RadiusMeters,
			StrictMode:          e.StrictMode,
			AllowManualOverride: e.AllowManualOverride,
		},
		CheckInToken:  e.CheckInToken,
		CheckOutToken: e.CheckOutToken,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
