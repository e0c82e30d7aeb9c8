package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskmgmt/task-management-api/internal/dto"
	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/middleware"
	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// TaskHandler coordinates task HTTP handlers, both the direct /tasks routes
// and the routes nested under /task-lists.
type TaskHandler struct {
	taskService     *services.TaskService
	taskListService *services.TaskListService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService, taskListService *services.TaskListService) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		taskListService: taskListService,
	}
}

type createTaskRequest struct {
	Title          string              `json:"title" binding:"required"`
	Description    string              `json:"description" binding:"required"`
	TaskListID     uint64              `json:"task_list_id"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	AssignedUserID *uint64             `json:"assigned_user_id"`
}

type updateTaskRequest struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Priority       *models.TaskPriority `json:"priority"`
	DueDate        *time.Time           `json:"due_date"`
	AssignedUserID *uint64              `json:"assigned_user_id"`
}

// Create adds a task; the target list comes from the request body.
func (h *TaskHandler) Create(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.TaskListID == 0 {
		apierrors.BadRequest(c, "task_list_id is required")
		return
	}

	h.create(c, req)
}

// CreateInList adds a task to the list named in the path.
func (h *TaskHandler) CreateInList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	req.TaskListID = listID
	h.create(c, req)
}

func (h *TaskHandler) create(c *gin.Context, req createTaskRequest) {
	task, err := h.taskService.Create(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TaskListID:     req.TaskListID,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// Get returns a task by ID.
func (h *TaskHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetByID(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// ListByList returns the tasks of a list, honoring the query filters.
func (h *TaskHandler) ListByList(c *gin.Context) {
	listID, ok := parseIDParam(c, "list_id")
	if !ok {
		return
	}

	input, ok := h.filtersFromQuery(c, listID)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByList(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// ListInList returns the filtered tasks of the list in the path plus
// completion statistics computed over the whole list. Filters only narrow
// the returned tasks, never the statistics.
func (h *TaskHandler) ListInList(c *gin.Context) {
	listID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	input, ok := h.filtersFromQuery(c, listID)
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByList(input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	stats, err := h.taskListService.Stats(listID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TaskListTasksResponse{
		Tasks:                dto.ToTaskDTOs(tasks),
		TotalTasks:           stats.TotalTasks,
		CompletionPercentage: stats.CompletionPercentage,
	})
}

// ListByUser returns all tasks assigned to a user, across lists.
func (h *TaskHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListByAssignee(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// Update applies a partial update to a task.
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.update(c, id)
}

func (h *TaskHandler) update(c *gin.Context, id uint64) {
	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Update(id, services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		DueDate:        req.DueDate,
		AssignedUserID: req.AssignedUserID,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus sets a task's status.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.updateStatus(c, id)
}

func (h *TaskHandler) updateStatus(c *gin.Context, id uint64) {
	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Assign sets or clears a task's assignee; a null user_id unassigns.
func (h *TaskHandler) Assign(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.assign(c, id)
}

func (h *TaskHandler) assign(c *gin.Context, id uint64) {
	type AssignRequest struct {
		UserID *uint64 `json:"user_id"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Assign(id, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// Delete removes a task.
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	h.delete(c, id)
}

func (h *TaskHandler) delete(c *gin.Context, id uint64) {
	if err := h.taskService.Delete(id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List-scoped variants. The TaskInList middleware has already resolved the
// task and verified list membership.

// GetInList returns the task resolved by the middleware.
func (h *TaskHandler) GetInList(c *gin.Context) {
	task, ok := middleware.GetScopedTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateInList updates a task within its list scope.
func (h *TaskHandler) UpdateInList(c *gin.Context) {
	task, ok := middleware.GetScopedTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	h.update(c, task.ID)
}

// UpdateStatusInList sets the status of a task within its list scope.
func (h *TaskHandler) UpdateStatusInList(c *gin.Context) {
	task, ok := middleware.GetScopedTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	h.updateStatus(c, task.ID)
}

// AssignInList assigns a task within its list scope.
func (h *TaskHandler) AssignInList(c *gin.Context) {
	task, ok := middleware.GetScopedTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	h.assign(c, task.ID)
}

// DeleteInList deletes a task within its list scope.
func (h *TaskHandler) DeleteInList(c *gin.Context) {
	task, ok := middleware.GetScopedTask(c)
	if !ok {
		apierrors.InternalError(c, "")
		return
	}

	h.delete(c, task.ID)
}

func (h *TaskHandler) filtersFromQuery(c *gin.Context, listID uint64) (services.ListTasksInput, bool) {
	input := services.ListTasksInput{TaskListID: listID}

	if value := c.Query("status"); value != "" {
		status := models.TaskStatus(value)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status filter")
			return input, false
		}
		input.Status = &status
	}

	if value := c.Query("priority"); value != "" {
		priority := models.TaskPriority(value)
		if !priority.Valid() {
			apierrors.BadRequest(c, "Invalid priority filter")
			return input, false
		}
		input.Priority = &priority
	}

	if value := c.Query("assigned_user_id"); value != "" {
		userID, err := strconv.ParseUint(value, 10, 64)
		if err != nil || userID == 0 {
			apierrors.BadRequest(c, "Invalid assigned_user_id filter")
			return input, false
		}
		input.AssignedUserID = &userID
	}

	return input, true
}
