package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmgmt/task-management-api/internal/auth"
	"github.com/taskmgmt/task-management-api/internal/dto"
	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// UserHandler coordinates user administration HTTP handlers.
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Create adds a user, optionally with an initial password.
func (h *UserHandler) Create(c *gin.Context) {
	type CreateUserRequest struct {
		Username string             `json:"username" binding:"required"`
		Email    string             `json:"email" binding:"required"`
		FullName string             `json:"full_name" binding:"required"`
		Password string             `json:"password"`
		Status   *models.UserStatus `json:"status"`
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	}
	if req.Status != nil {
		input.Status = *req.Status
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			apierrors.InternalError(c, "")
			return
		}
		input.PasswordHash = hash
	}

	user, err := h.userService.Create(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// List returns all users, optionally filtered by status.
func (h *UserHandler) List(c *gin.Context) {
	var status *models.UserStatus
	if value := c.Query("status"); value != "" {
		s := models.UserStatus(value)
		switch s {
		case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
			status = &s
		default:
			apierrors.BadRequest(c, "Invalid status filter")
			return
		}
	}

	users, err := h.userService.List(status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTOs(users))
}

// Get returns a user by ID.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetByUsername returns a user by username.
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// GetByEmail returns a user by email.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	user, err := h.userService.GetByEmail(c.Param("email"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Update applies a partial update to a user.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateUserRequest struct {
		Username *string            `json:"username"`
		Email    *string            `json:"email"`
		FullName *string            `json:"full_name"`
		Status   *models.UserStatus `json:"status"`
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Status != nil {
		switch *req.Status {
		case models.UserStatusActive, models.UserStatusInactive, models.UserStatusSuspended:
		default:
			apierrors.BadRequest(c, "Invalid status")
			return
		}
	}

	user, err := h.userService.Update(id, services.UpdateUserInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Status:   req.Status,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Activate sets a user's status to active.
func (h *UserHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Activate(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Deactivate sets a user's status to inactive.
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.Deactivate(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// Delete removes a user. Their assigned tasks are unassigned.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.userService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
