package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1/request"
	"github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1/response"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/service"
)

const defaultCheckTimeout = 10 * time.Second

type AttendanceService interface {
	CheckIn(ctx context.Context, volunteerID uint, rawCode string, location *domain.Coordinates, manualOverride bool) (service.CheckInResult, error)
	CheckOut(ctx context.Context, volunteerID uint, rawCode string, location *domain.Coordinates, manualOverride bool) (service.CheckOutResult, error)
	GetVolunteerAttendance(ctx context.Context, volunteerID uint) ([]domain.Attendance, error)
	GetEventStatus(ctx context.Context, eventID, volunteerID uint) (domain.Attendance, error)
}

type AttendanceHandler struct {
	svc          AttendanceService
	uSvc         UserService
	checkTimeout time.Duration
}

func NewAttendanceHandler(svc AttendanceService, uSvc UserService, checkTimeout time.Duration) *AttendanceHandler {
	if checkTimeout <= 0 {
		checkTimeout = defaultCheckTimeout
	}

	return &AttendanceHandler{
		svc:          svc,
		uSvc:         uSvc,
		checkTimeout: checkTimeout,
	}
}

// HandleCheckIn godoc
// @Summary      Check in to an event
// @Description  Verifies the scanned check-in code and claimed location against the event geofence, then records the check-in.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.ScanRequest  true  "Scanned code and claimed location"
// @Success      200    {object}  response.CheckInResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      422    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance/check-in [post]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleCheckIn(ctx *gin.Context) {
	user, req, respErr := h.bindScan(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), h.checkTimeout)
	defer cancel()

	result, err := h.svc.CheckIn(reqCtx, user.ID, req.Code, scanLocation(req), req.ManualOverride)
	if err != nil {
		h.renderScanErr(ctx, "HandleCheckIn", err)
		return
	}

	ctx.JSON(http.StatusOK, response.CheckInResponse{
		Message:        "checked in",
		DistanceMeters: result.DistanceMeters,
		Attendance:     result.Attendance,
	})
}

// HandleCheckOut godoc
// @Summary      Check out of an event
// @Description  Verifies the scanned check-out code and claimed location, completes the attendance session and credits the derived hours.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.ScanRequest  true  "Scanned code and claimed location"
// @Success      200    {object}  response.CheckOutResponse
// @Failure      400    {object}  response.Err
// @Failure      401    {object}  response.Err
// @Failure      403    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      422    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance/check-out [post]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleCheckOut(ctx *gin.Context) {
	user, req, respErr := h.bindScan(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request.Context(), h.checkTimeout)
	defer cancel()

	result, err := h.svc.CheckOut(reqCtx, user.ID, req.Code, scanLocation(req), req.ManualOverride)
	if err != nil {
		h.renderScanErr(ctx, "HandleCheckOut", err)
		return
	}

	ctx.JSON(http.StatusOK, response.CheckOutResponse{
		Message:        "checked out",
		DistanceMeters: result.DistanceMeters,
		HoursCompleted: result.HoursCompleted,
		Attendance:     result.Attendance,
	})
}

// HandleGetMyAttendance godoc
// @Summary      Get the authenticated volunteer's attendance history
// @Tags         attendance
// @Produce      json
// @Success      200  {array}   domain.Attendance
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /attendance/me [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleGetMyAttendance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	attendances, err := h.svc.GetVolunteerAttendance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyAttendance -> h.svc.GetVolunteerAttendance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, attendances)
}

// HandleGetMyEventStatus godoc
// @Summary      Get the authenticated volunteer's status for one event
// @Tags         attendance
// @Produce      json
// @Param        eventID  path      int  true  "Event ID"
// @Success      200      {object}  domain.Attendance
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /events/{eventID}/attendance/me [get]
// @Security     BearerAuth
func (h *AttendanceHandler) HandleGetMyEventStatus(ctx *gin.Context) {
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

	attendance, err := h.svc.GetEventStatus(ctx.Request.Context(), uint(eventID), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetMyEventStatus -> h.svc.GetEventStatus -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, attendance)
}

func (h *AttendanceHandler) bindScan(ctx *gin.Context) (domain.User, *request.ScanRequest, *response.Err) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return domain.User{}, nil, respErr
	}

	var req request.ScanRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return domain.User{}, nil, response.ErrBadRequest(err)
	}

	if err := req.Validate(); err != nil {
		return domain.User{}, nil, response.ErrBadRequest(err)
	}

	return user, &req, nil
}

func scanLocation(req *request.ScanRequest) *domain.Coordinates {
	if !req.HasLocation() {
		return nil
	}

	return &domain.Coordinates{
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
}

// renderScanErr maps the attendance error taxonomy onto HTTP statuses.
// State-machine outcomes are conflicts, not server failures.
func (h *AttendanceHandler) renderScanErr(ctx *gin.Context, op string, err error) {
	var geofenceErr *service.GeofenceViolationError

	switch {
	case errors.Is(err, service.ErrInvalidCode):
		response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidCode))
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "code", "scanned"))
	case errors.Is(err, service.ErrLocationUnavailable):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrLocationUnavailable))
	case errors.As(err, &geofenceErr):
		response.RenderErr(ctx, response.ErrGeofenceViolation(geofenceErr, geofenceErr.DistanceMeters))
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCheckedIn))
	case errors.Is(err, service.ErrAlreadyCheckedOut):
		response.RenderErr(ctx, response.ErrConflict(service.ErrAlreadyCheckedOut))
	case errors.Is(err, service.ErrNoCheckInRecord):
		response.RenderErr(ctx, response.ErrConflict(service.ErrNoCheckInRecord))
	case errors.Is(err, context.DeadlineExceeded):
		response.RenderErr(ctx, response.ErrUnprocessable(service.ErrLocationUnavailable))
	default:
		err = fmt.Errorf("v1.%s -> %w", op, err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
