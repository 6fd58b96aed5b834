package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gigmarket/gigmarket/internal/infra/identity"
	"github.com/gigmarket/gigmarket/internal/middleware"
	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

// viewer returns the authenticated user with a stored profile, or nil.
func viewer(c *gin.Context) *model.User {
	if v, ok := c.Get(middleware.UserKey); ok {
		if u, ok := v.(*model.User); ok {
			return u
		}
	}
	return nil
}

// callerIdentity returns the verified identity, or nil when anonymous.
func callerIdentity(c *gin.Context) *identity.Identity {
	if v, ok := c.Get(middleware.IdentityKey); ok {
		if id, ok := v.(*identity.Identity); ok {
			return id
		}
	}
	return nil
}

// uuidParam parses a path parameter, writing a 400 on failure.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid "+name, err))
		return uuid.Nil, false
	}
	return id, true
}

// handleErr writes the response for a service error.
func handleErr(c *gin.Context, err error) {
	var gate *service.PublishGateError
	switch {
	case errors.As(err, &gate):
		c.JSON(http.StatusBadRequest, serializer.Response{
			Code: http.StatusBadRequest,
			Msg:  gate.Error(),
			Data: gin.H{"unmet": gate.Unmet},
		})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, serializer.ForbiddenErr(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, serializer.NotFoundErr(err.Error()))
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, serializer.ParamErr(err.Error(), nil))
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, serializer.ConflictErr(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
	}
}
