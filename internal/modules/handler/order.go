package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(s service.OrderService) *OrderHandler {
	return &OrderHandler{svc: s}
}

type CreateOrderReq struct {
	Tier string `form:"tier" json:"tier" binding:"required,tier" example:"Standard"`
	Note string `form:"note" json:"note" example:"Please use our brand colors"`
}

// CreateOrder godoc
//
//	@Summary		Order a project tier
//	@Description	Record an order for a published project's offer. No payment is taken.
//	@Tags			order
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.CreateOrderReq	true	"CreateOrder payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Order}
//	@Router			/projects/{id}/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := CreateOrderReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	o, err := h.svc.Create(c.Request.Context(), viewer(c), service.CreateOrderInput{
		ProjectID: projectID,
		Tier:      model.Tier(req.Tier),
		Note:      req.Note,
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: o})
}

// ListOrders godoc
//
//	@Summary		List project orders
//	@Tags			order
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=[]model.Order}
//	@Router			/projects/{id}/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	orders, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: orders})
}
