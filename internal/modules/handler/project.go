package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Title         string `form:"title" json:"title" binding:"required" example:"I will design a minimalist logo for your brand"`
	Description   string `form:"description" json:"description" example:"Clean vector logo with unlimited concepts"`
	SubcategoryID string `form:"subcategory_id" json:"subcategory_id" binding:"required,uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a draft project owned by the caller. Title must be 20 to 70 characters.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Create(c.Request.Context(), viewer(c), service.CreateProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		SubcategoryID: uuid.MustParse(req.SubcategoryID),
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: p})
}

type ListProjectsReq struct {
	Search    string `form:"search" json:"search" example:"logo"`
	Filter    string `form:"filter" json:"filter" example:"Logo Design"`
	Favorites bool   `form:"favorites,default=false" json:"favorites" example:"false"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	Search project titles, or list published projects when search is empty. Filter takes a subcategory or category name.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			search		query	string	false	"Case-insensitive title search"
//	@Param			filter		query	string	false	"Subcategory or category name"
//	@Param			favorites	query	boolean	false	"Only the caller's favorites"	example(false)
//	@Success		200	{object}	serializer.Response{data=[]service.ProjectCard}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListProjectsReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	cards, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{
		Search:    req.Search,
		Filter:    req.Filter,
		Favorites: req.Favorites,
		Viewer:    viewer(c),
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: cards})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Get a project with its seller, last fulfillment, images, reviews and the caller's favorite flag
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=service.ProjectDetail}
//	@Router			/projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	d, err := h.svc.Get(c.Request.Context(), id, viewer(c))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: d})
}

// GetSellerStats godoc
//
//	@Summary		Seller dashboard
//	@Description	List the caller's projects with order count, revenue and thumbnail
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=[]service.SellerProjectStats}
//	@Router			/projects/stats [get]
func (h *ProjectHandler) GetSellerStats(c *gin.Context) {
	stats, err := h.svc.ListSellerStats(c.Request.Context(), viewer(c))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: stats})
}

type RenameProjectReq struct {
	Title string `form:"title" json:"title" binding:"required" example:"Minimalist logo design"`
}

// RenameProject godoc
//
//	@Summary		Rename project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string						true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.RenameProjectReq	true	"RenameProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{id}/title [patch]
func (h *ProjectHandler) RenameProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := RenameProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Rename(c.Request.Context(), viewer(c), id, req.Title)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type UpdateDescriptionReq struct {
	Description string `form:"description" json:"description" binding:"required" example:"Clean vector logo with unlimited concepts"`
}

// UpdateDescription godoc
//
//	@Summary		Update project description
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string							true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.UpdateDescriptionReq	true	"UpdateDescription payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{id}/description [patch]
func (h *ProjectHandler) UpdateDescription(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := UpdateDescriptionReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.UpdateDescription(c.Request.Context(), viewer(c), id, req.Description)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// PublishProject godoc
//
//	@Summary		Publish project
//	@Description	Publish a project. Requires at least one image, a description and exactly three offers; every unmet condition is reported.
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{id}/publish [post]
func (h *ProjectHandler) PublishProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Publish(c.Request.Context(), viewer(c), id)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// UnpublishProject godoc
//
//	@Summary		Unpublish project
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{id}/unpublish [post]
func (h *ProjectHandler) UnpublishProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	p, err := h.svc.Unpublish(c.Request.Context(), viewer(c), id)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// IsPublished godoc
//
//	@Summary		Project publish state
//	@Description	Returns false for unknown projects
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=bool}
//	@Router			/projects/{id}/published [get]
func (h *ProjectHandler) IsPublished(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	published, err := h.svc.IsPublished(c.Request.Context(), id)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: published})
}

// GetCategory godoc
//
//	@Summary		Project category
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=service.CategoryAndSubcategory}
//	@Router			/projects/{id}/category [get]
func (h *ProjectHandler) GetCategory(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	out, err := h.svc.GetCategoryAndSubcategory(c.Request.Context(), id)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project with its offers, media and favorites
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.Remove(c.Request.Context(), viewer(c), id); err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// RecordClick godoc
//
//	@Summary		Record project click
//	@Tags			project
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		202	{object}	serializer.Response{}
//	@Router			/projects/{id}/click [post]
func (h *ProjectHandler) RecordClick(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.svc.RecordClick(c.Request.Context(), id); err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusAccepted, serializer.Response{})
}

// ListSellerProjects godoc
//
//	@Summary		List a seller's projects
//	@Description	Returns an empty list for unknown usernames
//	@Tags			user
//	@Produce		json
//	@Param			username	path	string	true	"Seller username"
//	@Success		200	{object}	serializer.Response{data=[]model.Project}
//	@Router			/users/{username}/projects [get]
func (h *ProjectHandler) ListSellerProjects(c *gin.Context) {
	projects, err := h.svc.ListBySellerName(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: projects})
}

// ListSellerProjectsWithImages godoc
//
//	@Summary		List a seller's projects with images
//	@Tags			user
//	@Produce		json
//	@Param			username	path	string	true	"Seller username"
//	@Success		200	{object}	serializer.Response{data=[]service.ProjectWithImages}
//	@Router			/users/{username}/projects/images [get]
func (h *ProjectHandler) ListSellerProjectsWithImages(c *gin.Context) {
	out, err := h.svc.ListWithImages(c.Request.Context(), c.Param("username"))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}
