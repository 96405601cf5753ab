package v1

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/alsadi22/swaedfirebase-sub001/internal/api/handler/v1/response"
	"github.com/alsadi22/swaedfirebase-sub001/internal/api/middleware"
	"github.com/alsadi22/swaedfirebase-sub001/internal/domain"
	"github.com/alsadi22/swaedfirebase-sub001/internal/service"
)

func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	rawID, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized("user not authenticated")
	}

	userID, ok := rawID.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized("user not authenticated")
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrNotFound("user", "ID", userID)
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("v1.getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}
