package dto

import (
	"time"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID             uint64              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         models.TaskStatus   `json:"status"`
	Priority       models.TaskPriority `json:"priority"`
	DueDate        *time.Time          `json:"due_date"`
	TaskListID     uint64              `json:"task_list_id"`
	AssignedUserID *uint64             `json:"assigned_user_id"`
	AssignedUser   *UserDTO            `json:"assigned_user,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:             task.ID,
		Title:          task.Title,
		Description:    task.Description,
		Status:         task.Status,
		Priority:       task.Priority,
		DueDate:        task.DueDate,
		TaskListID:     task.TaskListID,
		AssignedUserID: task.AssignedUserID,
		CreatedAt:      task.CreatedAt,
		UpdatedAt:      task.UpdatedAt,
	}

	// Include assignee if preloaded
	if task.AssignedUser != nil && task.AssignedUser.ID != 0 {
		user := ToUserDTO(*task.AssignedUser)
		dto.AssignedUser = &user
	}

	return dto
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}
