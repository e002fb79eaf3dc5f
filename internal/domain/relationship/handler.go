package relationship

import (
	"errors"
	"net/http"
	"strconv"

	"worktide/internal/domain/user"
	"worktide/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type blockRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

// Block godoc
// @Summary Block a user
// @Tags Relationships
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body blockRequest true "User to block"
// @Router /relationships/block [post]
func (h *Handler) Block(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "user_id is required")
		return
	}
	if err := h.service.Block(c.Request.Context(), userID, req.UserID); err != nil {
		switch {
		case errors.Is(err, ErrCannotBlockSelf):
			response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		case errors.Is(err, user.ErrUserNotFound):
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, ErrAlreadyBlocked):
			response.CustomError(c, http.StatusConflict, "ALREADY_BLOCKED", err.Error())
		default:
			response.Internal(c, "BLOCK_FAILED", "Failed to block user")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "blocked"})
}

// Unblock godoc
// @Summary Unblock a user
// @Tags Relationships
// @Security BearerAuth
// @Param user_id path int true "User ID to unblock"
// @Router /relationships/block/{user_id} [delete]
func (h *Handler) Unblock(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}
	targetID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil || targetID <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user_id")
		return
	}
	if err := h.service.Unblock(c.Request.Context(), userID, targetID); err != nil {
		if errors.Is(err, ErrNotBlocked) {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		response.Internal(c, "UNBLOCK_FAILED", "Failed to unblock user")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "unblocked"})
}

func (h *Handler) ListBlocked(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}
	blocked, err := h.service.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to list blocked users")
		return
	}
	response.Success(c, http.StatusOK, blocked)
}
