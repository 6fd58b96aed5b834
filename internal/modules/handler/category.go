package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type CategoryHandler struct {
	svc service.CategoryService
}

func NewCategoryHandler(s service.CategoryService) *CategoryHandler {
	return &CategoryHandler{svc: s}
}

// ListCategories godoc
//
//	@Summary		List categories
//	@Tags			category
//	@Produce		json
//	@Success		200	{object}	serializer.Response{data=[]model.Category}
//	@Router			/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	cats, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, serializer.DBErr("", err))
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: cats})
}
