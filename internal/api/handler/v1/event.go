package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1/request"
	"github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1/response"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/service"
)

type EventService interface {
	CreateEvent(ctx context.Context, event domain.Event, organizerID uint) (domain.Event, error)
	GetEvent(ctx context.Context, id uint) (domain.Event, error)
	GetEvents(ctx context.Context) ([]domain.Event, error)
	GetOrganizerEvents(ctx context.Context, organizerID uint) ([]domain.Event, error)
	GetEventAttendance(ctx context.Context, eventID, requesterID uint) ([]domain.Attendance, error)
}

type EventHandler struct {
	svc  EventService
	uSvc UserService
}

func NewEventHandler(svc EventService, uSvc UserService) *EventHandler {
	return &EventHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create a new event
// @Description  Creates an event with venue coordinates and geofence settings. Organizers only. The response carries the immutable check-in/check-out codes to print.
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateEventRequest  true  "Event details"
// @Success      201    {object}  domain.Event
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if user.Role != "organizer" {
		response.RenderErr(ctx, response.ErrPermissionDenied(fmt.Errorf("user %v is not an organizer", user.ID)))
		return
	}

	var input request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&input); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := input.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	strictMode := true
	if input.StrictMode != nil {
		strictMode = *input.StrictMode
	}

	event := domain.Event{
		Title:       input.Title,
		Description: input.Description,
		Venue: domain.Coordinates{
			Latitude:  *input.Latitude,
			Longitude: *input.Longitude,
		},
		Geofence: domain.Geofence{
			RadiusMeters:        input.RadiusMeters,
			StrictMode:          strictMode,
			AllowManualOverride: input.AllowManualOverride,
		},
	}

	createdEvent, err := h.svc.CreateEvent(ctx.Request.Context(), event, user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, createdEvent)
}

// HandleGetEvents godoc
// @Summary      List events
// @Description  Lists all events, or only the caller's own events when mine=true (organizers).
// @Tags         events
// @Produce      json
// @Param        mine  query     bool  false  "only events organized by the caller"
// @Success      200   {array}   domain.Event
// @Failure      401   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /events [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvents(ctx *gin.Context) {
	var (
		events []domain.Event
		err    error
	)

	if ctx.Query("mine") == "true" {
		user, respErr := getUserFromContext(ctx, h.uSvc)
		if respErr != nil {
			response.RenderErr(ctx, respErr)
			return
		}

		events, err = h.svc.GetOrganizerEvents(ctx.Request.Context(), user.ID)
	} else {
		events, err = h.svc.GetEvents(ctx.Request.Context())
	}
	if err != nil {
		err = fmt.Errorf("v1.HandleGetEvents -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	event, err := h.svc.GetEvent(ctx.Request.Context(), uint(eventID))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleGetEventAttendance godoc
// @Summary      Get the attendance roster for an event
// @Description  Returns every attendance record for the event. Restricted to the event's organizer.
// @Tags         events
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {array}   domain.Attendance
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      403      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEventAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID, err := strconv.ParseUint(ctx.Param("eventID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid event ID: %w", err)))
		return
	}

	attendances, err := h.svc.GetEventAttendance(ctx.Request.Context(), uint(eventID), user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, service.ErrNotEventOrganizer):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleGetEventAttendance -> h.svc.GetEventAttendance -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}
