package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/model"
	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type OfferHandler struct {
	svc service.OfferService
}

func NewOfferHandler(s service.OfferService) *OfferHandler {
	return &OfferHandler{svc: s}
}

type UpsertOfferReq struct {
	Tier         string `form:"tier" json:"tier" binding:"required,tier" example:"Basic"`
	Title        string `form:"title" json:"title" binding:"required" example:"Starter logo"`
	Description  string `form:"description" json:"description" example:"One concept, two revisions"`
	Price        int64  `form:"price" json:"price" binding:"required,gt=0" example:"2500"`
	DeliveryDays int    `form:"delivery_days" json:"delivery_days" binding:"required,min=1" example:"3"`
	Revisions    int    `form:"revisions" json:"revisions" binding:"min=0" example:"2"`
}

// UpsertOffer godoc
//
//	@Summary		Create or update an offer
//	@Description	Create the offer for a tier, registering a price record, or patch the existing one. The price record of an existing offer is kept.
//	@Tags			offer
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.UpsertOfferReq	true	"UpsertOffer payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Offer}
//	@Router			/projects/{id}/offers [post]
func (h *OfferHandler) UpsertOffer(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := UpsertOfferReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	o, err := h.svc.Upsert(c.Request.Context(), viewer(c), service.UpsertOfferInput{
		ProjectID:    projectID,
		Tier:         model.Tier(req.Tier),
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		DeliveryDays: req.DeliveryDays,
		Revisions:    req.Revisions,
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: o})
}

// ListOffers godoc
//
//	@Summary		List offers
//	@Description	List a project's offers ordered Basic, Standard, Premium
//	@Tags			offer
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=[]model.Offer}
//	@Router			/projects/{id}/offers [get]
func (h *OfferHandler) ListOffers(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	offers, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: offers})
}
