package user

import (
	"errors"
	"net/http"
	"strconv"

	"worktide/internal/pkg/response"
	"worktide/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages account and profile endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register godoc
// @Summary Register a client or freelancer account
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Account"
// @Success 201 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			response.CustomError(c, http.StatusConflict, "EMAIL_EXISTS", "Email already registered")
		case errors.Is(err, ErrInvalidRole):
			response.CustomError(c, http.StatusBadRequest, "INVALID_ROLE", err.Error())
		default:
			response.Internal(c, "REGISTER_FAILED", "Failed to register")
		}
		return
	}

	response.Success(c, http.StatusCreated, res)
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			response.CustomError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
		case errors.Is(err, ErrAccountBanned):
			response.CustomError(c, http.StatusForbidden, "ACCOUNT_BANNED", "Account is banned")
		default:
			response.Internal(c, "LOGIN_FAILED", "Failed to log in")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Unauthorized(c)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.CustomError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	if fields := validator.Validate(req); fields != nil {
		response.ValidationFailed(c, fields)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u)
}

// GetProfile returns another user's public profile.
func (h *Handler) GetProfile(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.CustomError(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	u, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, u.Public())
}

func (h *Handler) ListFreelancers(c *gin.Context) {
	users, err := h.service.ListFreelancers(c.Request.Context(), c.Query("skill"))
	if err != nil {
		response.Internal(c, "FETCH_FAILED", "Failed to list freelancers")
		return
	}

	items := make([]Public, 0, len(users))
	for _, u := range users {
		items = append(items, u.Public())
	}
	response.Success(c, http.StatusOK, items)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if errors.Is(err, ErrUserNotFound) {
		response.CustomError(c, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	response.Internal(c, "INTERNAL_ERROR", "Internal error")
}
