package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type UserHandler struct {
	svc service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{svc: s}
}

// GetCurrentUser godoc
//
//	@Summary		Current user
//	@Description	Get the profile of the authenticated caller. 404 until the profile is stored.
//	@Tags			user
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [get]
func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	u, err := h.svc.Current(c.Request.Context(), callerIdentity(c))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}

type StoreUserReq struct {
	Username        string `form:"username" json:"username" example:"jane_doe"`
	FullName        string `form:"full_name" json:"full_name" example:"Jane Doe"`
	Title           string `form:"title" json:"title" example:"Brand designer"`
	About           string `form:"about" json:"about" example:"Ten years of logo work"`
	ProfileImageURL string `form:"profile_image_url" json:"profile_image_url" binding:"omitempty,url" example:"https://example.com/jane.png"`
}

// StoreCurrentUser godoc
//
//	@Summary		Store current user
//	@Description	Create or update the caller's profile. Empty fields fall back to the identity provider's claims.
//	@Tags			user
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.StoreUserReq	true	"StoreUser payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/me [post]
func (h *UserHandler) StoreCurrentUser(c *gin.Context) {
	req := StoreUserReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	u, err := h.svc.Store(c.Request.Context(), callerIdentity(c), service.StoreUserInput{
		Username:        req.Username,
		FullName:        req.FullName,
		Title:           req.Title,
		About:           req.About,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}

// GetUser godoc
//
//	@Summary		Get user by username
//	@Tags			user
//	@Produce		json
//	@Param			username	path	string	true	"Username"
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/users/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	u, err := h.svc.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}

// GetSeller godoc
//
//	@Summary		Get seller by id
//	@Tags			user
//	@Produce		json
//	@Param			id	path	string	true	"User ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=model.User}
//	@Router			/sellers/{id} [get]
func (h *UserHandler) GetSeller(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	u, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}
