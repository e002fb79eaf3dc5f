package notification

import (
	"errors"
	"net/http"
	"strconv"

	"worktide/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetNotifications godoc
// @Summary List notifications of the current user
// @Description Newest first, with the unread count. Supports limit (default 20, max 100) and offset.
// @Tags Notifications
// @Security BearerAuth
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} NotificationListResponse
// @Router /notifications [get]
func (h *Handler) GetNotifications(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = min(v, 100)
		}
	}

	offset := 0
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	items, unread, total, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to get notifications")
		return
	}

	response.Success(c, http.StatusOK, NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
		Total:         total,
	})
}

// GetUnreadCount godoc
// @Summary Unread notification count
// @Tags Notifications
// @Security BearerAuth
// @Success 200 {object} UnreadCountResponse
// @Router /notifications/unread-count [get]
func (h *Handler) GetUnreadCount(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	unread, err := h.service.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to get unread count")
		return
	}

	response.Success(c, http.StatusOK, UnreadCountResponse{UnreadCount: unread})
}

// MarkAsRead godoc
// @Summary Mark one notification as read
// @Tags Notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} Notification
// @Failure 404 {object} map[string]interface{}
// @Router /notifications/{id}/read [patch]
func (h *Handler) MarkAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	n, err := h.service.MarkAsRead(c.Request.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Internal(c, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, n)
}

// MarkAllAsRead godoc
// @Summary Mark every notification of the current user as read
// @Tags Notifications
// @Security BearerAuth
// @Success 200 {object} MarkAllResponse
// @Router /notifications/read-all [post]
func (h *Handler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	updated, err := h.service.MarkAllAsRead(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "UPDATE_FAILED", "Failed to mark as read")
		return
	}

	response.Success(c, http.StatusOK, MarkAllResponse{Updated: updated})
}

// DeleteNotification godoc
// @Summary Delete one notification
// @Tags Notifications
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Router /notifications/{id} [delete]
func (h *Handler) DeleteNotification(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, ErrNotificationNotFound) {
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Notification not found")
			return
		}
		response.Internal(c, "DELETE_FAILED", "Failed to delete notification")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid notification ID")
		return 0, false
	}
	return id, true
}
