package task

import (
	"context"
	"errors"
	"net/http"
	"strconv"

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

// CreateTask godoc
// @Summary Post a new task
// @Tags Tasks
// @Security BearerAuth
// @Accept json
// @Param body body CreateTaskRequest true "Task"
// @Success 201 {object} Task
// @Router /tasks [post]
func (h *Handler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if !bind(c, &req) {
		return
	}

	t, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, t)
}

// ListTasks godoc
// @Summary Browse tasks
// @Tags Tasks
// @Security BearerAuth
// @Param status query string false "open, pending, in_progress, completed"
// @Param skill query string false "Required skill"
// @Param client_id query int false "Posted by"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} TaskListResponse
// @Router /tasks [get]
func (h *Handler) ListTasks(c *gin.Context) {
	limit, offset := paging(c)
	clientID, _ := strconv.ParseInt(c.Query("client_id"), 10, 64)

	tasks, total, err := h.service.List(c.Request.Context(), ListFilter{
		Status:   Status(c.Query("status")),
		Skill:    c.Query("skill"),
		ClientID: clientID,
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, TaskListResponse{Tasks: tasks, Total: total})
}

func (h *Handler) GetTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req UpdateTaskRequest
	if !bind(c, &req) {
		return
	}

	t, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "deleted"})
}

// Apply godoc
// @Summary Apply to a task as a freelancer
// @Tags Tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body ApplyRequest true "Application"
// @Success 201 {object} Application
// @Router /tasks/{id}/applications [post]
func (h *Handler) Apply(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ApplyRequest
	if !bind(c, &req) {
		return
	}

	app, err := h.service.Apply(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, app)
}

func (h *Handler) ListApplications(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	apps, err := h.service.ListApplications(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

func (h *Handler) ListMyApplications(c *gin.Context) {
	apps, err := h.service.ListMyApplications(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, apps)
}

func (h *Handler) AcceptApplication(c *gin.Context) {
	h.decideApplication(c, h.service.AcceptApplication)
}

func (h *Handler) RejectApplication(c *gin.Context) {
	h.decideApplication(c, h.service.RejectApplication)
}

func (h *Handler) decideApplication(c *gin.Context, decide func(context.Context, int64, int64) (*Application, error)) {
	appID, ok := paramID(c, "appId")
	if !ok {
		return
	}
	app, err := decide(c.Request.Context(), c.GetInt64("user_id"), appID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, app)
}

// Invite godoc
// @Summary Invite a freelancer to a task
// @Tags Tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param body body InviteRequest true "Invitation"
// @Success 201 {object} TaskRequest
// @Router /tasks/{id}/requests [post]
func (h *Handler) Invite(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req InviteRequest
	if !bind(c, &req) {
		return
	}

	tr, err := h.service.Invite(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tr)
}

func (h *Handler) ListTaskRequests(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	reqs, err := h.service.ListTaskRequests(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

func (h *Handler) ListMyRequests(c *gin.Context) {
	reqs, err := h.service.ListMyRequests(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reqs)
}

// RespondToRequest godoc
// @Summary Accept or decline an invitation
// @Tags Tasks
// @Security BearerAuth
// @Param requestId path int true "Request ID"
// @Param body body RespondRequest true "Decision"
// @Success 200 {object} TaskRequest
// @Router /task-requests/{requestId}/respond [post]
func (h *Handler) RespondToRequest(c *gin.Context) {
	id, ok := paramID(c, "requestId")
	if !ok {
		return
	}
	var req RespondRequest
	if !bind(c, &req) {
		return
	}

	tr, err := h.service.RespondToRequest(c.Request.Context(), c.GetInt64("user_id"), id, req.Decision)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tr)
}

func (h *Handler) CompleteTask(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := h.service.Complete(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, t)
}

// GetRecommendations godoc
// @Summary Freelancers ranked by skill match
// @Tags Tasks
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} Recommendation
// @Router /tasks/{id}/recommendations [get]
func (h *Handler) GetRecommendations(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	limit, offset := paging(c)

	recs, err := h.service.Recommendations(c.Request.Context(), id, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, recs)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return false
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

func paging(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	limit = min(limit, 100)
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func writeError(c *gin.Context, err error) {
	switch {
	case IsNotFound(err):
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, ErrForbidden):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Not allowed")
	case errors.Is(err, ErrAlreadyApplied), errors.Is(err, ErrAlreadyInvited):
		response.CustomError(c, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, ErrTaskNotOpen),
		errors.Is(err, ErrTaskNotEditable),
		errors.Is(err, ErrInvalidStatusTransition):
		response.CustomError(c, http.StatusConflict, "INVALID_STATE", err.Error())
	case errors.Is(err, ErrOnlyFreelancers):
		response.CustomError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, ErrOwnTask),
		errors.Is(err, ErrNotFreelancer),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidDecision),
		errors.Is(err, user.ErrInvalidRole):
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Internal(c, "INTERNAL_ERROR", "Something went wrong")
	}
}
