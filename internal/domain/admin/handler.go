package admin

import (
	"errors"
	"net/http"
	"strconv"

	"worktide/internal/domain/task"
	"worktide/internal/domain/user"
	"worktide/internal/pkg/response"
	"worktide/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetStats godoc
// @Summary Platform counters
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} Stats
// @Router /admin/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Internal(c, "STATS_FAILED", "Failed to load statistics")
		return
	}
	response.Success(c, http.StatusOK, stats)
}

// GetUsers godoc
// @Summary List accounts
// @Tags Admin
// @Security BearerAuth
// @Param role query string false "client, freelancer or admin"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} UserListResponse
// @Router /admin/users [get]
func (h *Handler) GetUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	res, err := h.service.GetUsers(c.Request.Context(), c.Query("role"), limit, offset)
	if err != nil {
		if errors.Is(err, ErrInvalidRole) {
			response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		response.Internal(c, "FETCH_FAILED", "Failed to load users")
		return
	}
	response.Success(c, http.StatusOK, res)
}

// BanUser godoc
// @Summary Ban an account
// @Tags Admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param body body BanRequest false "Reason"
// @Router /admin/users/{id}/ban [post]
func (h *Handler) BanUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req BanRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
		if fields := validator.Validate(req); fields != nil {
			response.ValidationFailed(c, fields)
			return
		}
	}

	if err := h.service.BanUser(c.Request.Context(), id, req.Reason); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "banned"})
}

func (h *Handler) UnbanUser(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	if err := h.service.UnbanUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "active"})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid task ID")
		return
	}
	if err := h.service.DeleteTask(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
	case errors.Is(err, task.ErrTaskNotFound):
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Task not found")
	case errors.Is(err, ErrCannotBanAdmin):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrAlreadyBanned), errors.Is(err, ErrNotBanned):
		response.CustomError(c, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		response.Internal(c, "ADMIN_ACTION_FAILED", "Action failed")
	}
}
