package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lbonnet/formatrack-api/internal/api/handler/v1/response"
	"github.com/lbonnet/formatrack-api/internal/domain"
	"github.com/lbonnet/formatrack-api/internal/service"
)

func getUserFromContext(ctx *gin.Context, uSvc UserService) (domain.User, *response.Err) {
	userID := ctx.GetUint("userID")
	if userID == 0 {
		return domain.User{}, response.ErrPermissionDenied(errors.New("missing user in context"))
	}

	user, err := uSvc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrPermissionDenied(fmt.Errorf("user %v not found", userID))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> uSvc.GetUser -> %w", err))
	}

	return user, nil
}

func parseIDParam(ctx *gin.Context, name string) (uint, *response.Err) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, response.ErrBadRequest(fmt.Errorf("invalid %v (%v)", name, raw))
	}

	return uint(id), nil
}
