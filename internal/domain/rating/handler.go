package rating

import (
	"errors"
	"net/http"
	"strconv"

	"worktide/internal/domain/task"
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

// RateTask godoc
// @Summary Rate the other participant of a completed task
// @Tags Ratings
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body CreateRatingRequest true "Rating"
// @Success 201 {object} Rating
// @Router /tasks/{id}/ratings [post]
func (h *Handler) RateTask(c *gin.Context) {
	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || taskID <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid task ID")
		return
	}

	var req CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	r, err := h.service.Rate(c.Request.Context(), c.GetInt64("user_id"), taskID, req)
	if err != nil {
		switch {
		case errors.Is(err, task.ErrTaskNotFound):
			response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "Task not found")
		case errors.Is(err, ErrNotParticipant):
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
		case errors.Is(err, ErrAlreadyRated):
			response.CustomError(c, http.StatusConflict, "ALREADY_RATED", err.Error())
		case errors.Is(err, ErrTaskNotCompleted):
			response.CustomError(c, http.StatusConflict, "INVALID_STATE", err.Error())
		case errors.Is(err, ErrInvalidScore):
			response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Internal(c, "RATE_FAILED", "Failed to save rating")
		}
		return
	}

	response.Success(c, http.StatusCreated, r)
}

// ListUserRatings godoc
// @Summary Ratings received by a user
// @Tags Ratings
// @Param id path int true "User ID"
// @Success 200 {object} RatingListResponse
// @Router /users/{id}/ratings [get]
func (h *Handler) ListUserRatings(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	limit := 20
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, 100)
	}
	offset := 0
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v >= 0 {
		offset = v
	}

	res, err := h.service.ListForUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to load ratings")
		return
	}
	response.Success(c, http.StatusOK, res)
}
