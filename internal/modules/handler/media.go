package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gigmarket/gigmarket/internal/modules/serializer"
	"github.com/gigmarket/gigmarket/internal/modules/service"
)

type MediaHandler struct {
	svc service.MediaService
}

func NewMediaHandler(s service.MediaService) *MediaHandler {
	return &MediaHandler{svc: s}
}

// GenerateUploadURL godoc
//
//	@Summary		Get an upload URL
//	@Description	Returns a storage id and a presigned PUT URL. Attach the storage id to a project once the upload finishes.
//	@Tags			media
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.UploadHandle}
//	@Router			/media/upload_url [post]
func (h *MediaHandler) GenerateUploadURL(c *gin.Context) {
	handle, err := h.svc.GenerateUploadHandle(c.Request.Context(), viewer(c))
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: handle})
}

type AttachMediaReq struct {
	StorageID string `form:"storage_id" json:"storage_id" binding:"required" example:"0b6f1c1e-6a57-4a1f-9a51-4f1f5d0c8e7a"`
	Format    string `form:"format" json:"format" example:"image/png"`
}

// AttachMedia godoc
//
//	@Summary		Attach uploaded media
//	@Description	Attach an uploaded object to a project. A project holds at most 5 media files.
//	@Tags			media
//	@Accept			json
//	@Produce		json
//	@Param			id		path	string					true	"Project ID"	format(uuid)
//	@Param			payload	body	handler.AttachMediaReq	true	"AttachMedia payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectMedia}
//	@Router			/projects/{id}/media [post]
func (h *MediaHandler) AttachMedia(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	req := AttachMediaReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	m, err := h.svc.Attach(c.Request.Context(), viewer(c), service.AttachMediaInput{
		ProjectID: projectID,
		StorageID: req.StorageID,
		Format:    req.Format,
	})
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: m})
}

// UploadMedia godoc
//
//	@Summary		Upload media
//	@Description	Upload an image or video through the API and attach it to the project
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Project ID"	format(uuid)
//	@Param			file	formData	file	true	"Image or video file"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.ProjectMedia}
//	@Router			/projects/{id}/media/upload [post]
func (h *MediaHandler) UploadMedia(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("file is required", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("unreadable file", err))
		return
	}
	defer f.Close()

	m, err := h.svc.Upload(c.Request.Context(), viewer(c), projectID, f)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: m})
}

// DetachMedia godoc
//
//	@Summary		Delete media
//	@Tags			media
//	@Produce		json
//	@Param			storage_id	path	string	true	"Storage ID"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/media/{storage_id} [delete]
func (h *MediaHandler) DetachMedia(c *gin.Context) {
	if err := h.svc.Detach(c.Request.Context(), viewer(c), c.Param("storage_id")); err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{})
}

// GetMediaURL godoc
//
//	@Summary		Resolve media URL
//	@Tags			media
//	@Produce		json
//	@Param			storage_id	path	string	true	"Storage ID"
//	@Success		200	{object}	serializer.Response{data=string}
//	@Router			/media/{storage_id}/url [get]
func (h *MediaHandler) GetMediaURL(c *gin.Context) {
	storageID := c.Param("storage_id")
	if storageID == "" {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", errors.New("storage_id is required")))
		return
	}

	u, err := h.svc.ResolveURL(c.Request.Context(), storageID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: u})
}

// ListMedia godoc
//
//	@Summary		List project media
//	@Description	List a project's media oldest first, with resolved URLs
//	@Tags			media
//	@Produce		json
//	@Param			id	path	string	true	"Project ID"	format(uuid)
//	@Success		200	{object}	serializer.Response{data=[]service.ImageWithURL}
//	@Router			/projects/{id}/media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	projectID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	images, err := h.svc.ListByProject(c.Request.Context(), projectID)
	if err != nil {
		handleErr(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: images})
}
