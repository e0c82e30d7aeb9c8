package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmgmt/task-management-api/internal/dto"
	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// TaskListHandler coordinates task list HTTP handlers.
type TaskListHandler struct {
	taskListService *services.TaskListService
}

// NewTaskListHandler creates a new TaskListHandler.
func NewTaskListHandler(taskListService *services.TaskListService) *TaskListHandler {
	return &TaskListHandler{
		taskListService: taskListService,
	}
}

// Create adds a task list.
func (h *TaskListHandler) Create(c *gin.Context) {
	type CreateTaskListRequest struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	var req CreateTaskListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.taskListService.Create(req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskListDTO(*list))
}

// List returns all task lists.
func (h *TaskListHandler) List(c *gin.Context) {
	lists, err := h.taskListService.List()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListDTOs(lists))
}

// Get returns a task list by ID.
func (h *TaskListHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.taskListService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListDTO(*list))
}

// Update applies a partial update to a task list.
func (h *TaskListHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type UpdateTaskListRequest struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	var req UpdateTaskListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	list, err := h.taskListService.Update(id, req.Name, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListDTO(*list))
}

// Delete removes a task list together with its tasks.
func (h *TaskListHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskListService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
