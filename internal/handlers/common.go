package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// respondServiceError maps a domain error kind to its HTTP response. This is
// the only place the mapping lives.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidData):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrDuplicate):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}
