package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type ReviewHandler struct {
	svc service.ReviewService
}

func NewReviewHandler(s service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: s}
}

type AddReviewReq struct {
	SellerID           string `form:"seller_id" json:"seller_id" binding:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Comment            string `form:"comment" json:"comment" binding:"required" example:"Great work, fast delivery"`
	ServiceAsDescribed int    `form:"service_as_described" json:"service_as_described" binding:"required" example:"5"`
	RecommendToAFriend int    `form:"recommend_to_a_friend" json:"recommend_to_a_friend" binding:"required" example:"5"`
	CommunicationLevel int    `form:"communication_level" json:"communication_level" binding:"required" example:"4"`
}

// AddReview godoc
//
//	@Summary		Review a project
//	@Description	Comment must be at least 5 characters; each rating is 1 to 5
//	@Tags			review
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.AddReviewReq	true	"AddReview payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Review}
//	@Router			/projects/{id}/reviews [post]
func (h *ReviewHandler) AddReview(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := AddReviewReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	rv, err := h.svc.Add(c.Request.Context(), viewer(c), service.AddReviewInput{
		ProjectID:          projectID,
		SellerID:           uuid.MustParse(req.SellerID),
		Comment:            req.Comment,
		ServiceAsDescribed: req.ServiceAsDescribed,
		RecommendToAFriend: req.RecommendToAFriend,
		CommunicationLevel: req.CommunicationLevel,
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: rv})
}

// ListReviews godoc
//
//	@Summary		List project reviews
//	@Tags			review
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=[]model.Review}
//	@Router			/projects/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	reviews, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: reviews})
}

// ListFullReviews godoc
//
//	@Summary		List project reviews with context
//	@Description	Each review with its author, the project, the project's offers and its first image
//	@Tags			review
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=[]service.ReviewFull}
//	@Router			/projects/{id}/reviews/full [get]
func (h *ReviewHandler) ListFullReviews(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.ListFullByProject(c.Request.Context(), projectID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// ListSellerReviews godoc
//
//	@Summary		List a seller's reviews
//	@Tags			user
//	@Produce		json
//	@Param			username	path	string	true	"Seller username"
//	@Success		200	{object}	serializer.Response{data=[]model.Review}
//	@Router			/users/{username}/reviews [get]
func (h *ReviewHandler) ListSellerReviews(c *gin.Context) {
	reviews, err := h.svc.ListBySellerName(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: reviews})
}
