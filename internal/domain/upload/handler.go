package upload

import (
	"errors"
	"net/http"

	"worktide/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for file uploads.
// Any authenticated user can upload. Ownership is tracked by user_id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload godoc
// @Summary Upload a chat attachment
// @Description Returns {id, url, type, name, size}; url/type/name are used as a message attachment.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File to upload"
// @Success 201 {object} Upload
// @Failure 400,401,413,500 {object} map[string]interface{}
// @Router /uploads [post]
func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.service.MaxSize()+1<<20)
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.CustomError(c, http.StatusBadRequest, "NO_FILE", "No file provided")
		return
	}

	up, err := h.service.Upload(c.Request.Context(), userID, fileHeader)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile):
			response.CustomError(c, http.StatusBadRequest, "EMPTY_FILE", err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.CustomError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", err.Error())
		case errors.Is(err, ErrInvalidMimeType):
			response.CustomError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", err.Error())
		default:
			response.Internal(c, "UPLOAD_FAILED", "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, up)
}

// GetByID godoc
// @Summary Get upload metadata by ID
// @Tags Uploads
// @Security BearerAuth
// @Param id path string true "Upload ID"
// @Success 200 {object} Upload
// @Router /uploads/{id} [get]
func (h *Handler) GetByID(c *gin.Context) {
	up, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrUploadNotFound) {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Upload not found")
			return
		}
		response.Internal(c, "FETCH_FAILED", "Failed to load upload")
		return
	}
	response.Success(c, http.StatusOK, up)
}

// Delete godoc
// @Summary Delete an upload (file + record)
// @Tags Uploads
// @Security BearerAuth
// @Param id path string true "Upload ID"
// @Router /uploads/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, ErrUploadNotFound):
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Upload not found")
		case errors.Is(err, ErrNotOwner):
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		default:
			response.Internal(c, "DELETE_FAILED", "Delete failed")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

// ListMy godoc
// @Summary List my uploads
// @Tags Uploads
// @Security BearerAuth
// @Success 200 {array} Upload
// @Router /uploads [get]
func (h *Handler) ListMy(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	uploads, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to list uploads")
		return
	}
	response.Success(c, http.StatusOK, uploads)
}
