package chat

import (
	"net/http"
	"strconv"
	"strings"

	"worktide/internal/pkg/response"
	"worktide/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Presence answers which users have a live connection.
type Presence interface {
	Online(ids []int64) []int64
}

type Handler struct {
	service  *Service
	presence Presence
}

func NewHandler(service *Service, presence Presence) *Handler {
	return &Handler{service: service, presence: presence}
}

// SendMessage godoc
// @Summary Send a direct message
// @Tags Chat
// @Security BearerAuth
// @Accept json
// @Param body body SendMessageRequest true "Message"
// @Success 201 {object} Message
// @Router /chat/messages [post]
func (h *Handler) SendMessage(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	msg, err := h.service.Send(c.Request.Context(), userID, req)
	if err != nil {
		code, message := errorCode(err)
		switch code {
		case "NOT_FOUND":
			response.CustomError(c, http.StatusNotFound, code, message)
		case "BLOCKED":
			response.CustomError(c, http.StatusForbidden, code, message)
		case "VALIDATION_ERROR":
			response.CustomError(c, http.StatusBadRequest, code, message)
		default:
			response.Internal(c, code, message)
		}
		return
	}

	response.Success(c, http.StatusCreated, msg)
}

// GetHistory godoc
// @Summary Messages exchanged with another user, oldest first
// @Tags Chat
// @Security BearerAuth
// @Param userId path int true "Other user ID (0 for system messages)"
// @Success 200 {array} Message
// @Router /chat/messages/{userId} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	otherID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || otherID < 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	msgs, err := h.service.History(c.Request.Context(), userID, otherID)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to load messages")
		return
	}
	response.Success(c, http.StatusOK, msgs)
}

// GetConversations godoc
// @Summary Inbox: one entry per partner with the last message
// @Tags Chat
// @Security BearerAuth
// @Success 200 {array} Conversation
// @Router /chat/conversations [get]
func (h *Handler) GetConversations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	convs, err := h.service.Conversations(c.Request.Context(), userID)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to load conversations")
		return
	}
	response.Success(c, http.StatusOK, convs)
}

// GetOnline godoc
// @Summary Which of the given users are connected
// @Tags Chat
// @Security BearerAuth
// @Param ids query string true "Comma separated user IDs"
// @Success 200 {object} OnlineResponse
// @Router /chat/online [get]
func (h *Handler) GetOnline(c *gin.Context) {
	var ids []int64
	for _, part := range strings.Split(c.Query("ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID in ids")
			return
		}
		ids = append(ids, id)
	}

	response.Success(c, http.StatusOK, OnlineResponse{Online: h.presence.Online(ids)})
}
