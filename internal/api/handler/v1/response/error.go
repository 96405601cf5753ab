package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Err is the JSON error body rendered to callers. Internal detail is logged
// server-side, never leaked into the payload.
type Err struct {
	StatusCode int    `json:"-"`
	ErrorMsg   string `json:"error"`

	// DistanceMeters is set on geofence violations so the client can show
	// how far away the volunteer is.
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
}

func (e *Err) Error() string {
	return e.ErrorMsg
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnauthorized(msg string) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorMsg:   msg,
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v not found by %v (%v)", resource, key, value),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnprocessable(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnprocessableEntity,
		ErrorMsg:   err.Error(),
	}
}

// ErrGeofenceViolation carries the measured distance alongside the message.
func ErrGeofenceViolation(err error, distanceMeters float64) *Err {
	return &Err{
		StatusCode:     http.StatusForbidden,
		ErrorMsg:       err.Error(),
		DistanceMeters: &distanceMeters,
	}
}

func ErrInternalServerError(err error) *Err {
	zap.L().Error("internal server error", zap.Error(err))

	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorMsg:   "internal server error",
	}
}

func RenderErr(ctx *gin.Context, err *Err) {
	ctx.AbortWithStatusJSON(err.StatusCode, err)
}
