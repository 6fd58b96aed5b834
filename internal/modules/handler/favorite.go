package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type FavoriteHandler struct {
	svc service.FavoriteService
}

func NewFavoriteHandler(s service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{svc: s}
}

// Favorite godoc
//
//	@Summary		Favorite project
//	@Description	Fails with 409 when the project is already favorited
//	@Tags			favorite
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{id}/favorite [post]
func (h *FavoriteHandler) Favorite(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Favorite(c.Request.Context(), viewer(c), projectID); err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// Unfavorite godoc
//
//	@Summary		Unfavorite project
//	@Description	Fails with 409 when the project is not favorited
//	@Tags			favorite
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{id}/favorite [delete]
func (h *FavoriteHandler) Unfavorite(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Unfavorite(c.Request.Context(), viewer(c), projectID); err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}
