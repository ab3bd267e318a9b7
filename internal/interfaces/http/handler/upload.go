package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/media"
)

// UploadHandler stores images for product, article and banner forms
type UploadHandler struct {
	BaseHandler
	mediaService *media.Service
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(mediaService *media.Service) *UploadHandler {
	return &UploadHandler{mediaService: mediaService}
}

// UploadImage godoc
// @ID           uploadImage
// @Summary      Upload an image
// @Description  jpeg, png, webp or gif up to 5MB. The type is sniffed from the content.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData file   true  "Image"
// @Param        folder formData string false "Target folder" default(uploads)
// @Success      201 {object} APIResponse[media.UploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads/images [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.HandleError(c, media.ErrFileTooLarge)
			return
		}
		h.BadRequest(c, "Missing file")
		return
	}
	if fileHeader.Size > h.mediaService.MaxSize() {
		h.HandleError(c, media.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return
	}
	defer file.Close()

	// one extra byte detects a lying Size header
	data, err := io.ReadAll(io.LimitReader(file, h.mediaService.MaxSize()+1))
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return
	}

	resp, err := h.mediaService.Upload(c.Request.Context(), media.UploadInput{
		Folder: c.PostForm("folder"),
		Data:   data,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// DeleteImage godoc
// @ID           deleteImage
// @Summary      Delete an uploaded image
// @Description  Idempotent; deleting a missing key succeeds
// @Tags         uploads
// @Accept       json
// @Param        request body media.DeleteRequest true "Object key"
// @Success      204
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /uploads/images [delete]
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	var req media.DeleteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if err := h.mediaService.Delete(c.Request.Context(), req.Key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
