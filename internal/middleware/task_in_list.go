package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskmgmt/task-management-api/internal/errors"
	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/services"
)

// ContextKeyTask is the gin context key holding the task resolved by TaskInList.
const ContextKeyTask = "scoped_task"

// TaskInList resolves the :task_id parameter and verifies the task belongs
// to the :id task list. A task that exists but lives in another list is
// reported as not found rather than forbidden.
func TaskInList(taskService *services.TaskService) gin.HandlerFunc {
	return func(c *gin.Context) {
		listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task list ID")
			c.Abort()
			return
		}

		taskID, err := strconv.ParseUint(c.Param("task_id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid task ID")
			c.Abort()
			return
		}

		task, err := taskService.GetByID(taskID)
		if err != nil || task.TaskListID != listID {
			apierrors.NotFound(c, "Task not found in this list")
			c.Abort()
			return
		}

		c.Set(ContextKeyTask, task)
		c.Next()
	}
}

// GetScopedTask retrieves the task resolved by TaskInList from the context.
func GetScopedTask(c *gin.Context) (*models.Task, bool) {
	value, exists := c.Get(ContextKeyTask)
	if !exists {
		return nil, false
	}

	task, ok := value.(*models.Task)
	return task, ok
}
