package dto

import (
	"time"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// TaskListDTO represents a task list in API responses
type TaskListDTO struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskListTasksResponse is the nested listing payload: the (possibly
// filtered) tasks plus statistics over the whole list.
type TaskListTasksResponse struct {
	Tasks                []TaskDTO `json:"tasks"`
	TotalTasks           int64     `json:"total_tasks"`
	CompletionPercentage float64   `json:"completion_percentage"`
}

// ToTaskListDTO converts a TaskList model to TaskListDTO
func ToTaskListDTO(list models.TaskList) TaskListDTO {
	return TaskListDTO{
		ID:          list.ID,
		Name:        list.Name,
		Description: list.Description,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
}

// ToTaskListDTOs converts a slice of TaskList models
func ToTaskListDTOs(lists []models.TaskList) []TaskListDTO {
	dtos := make([]TaskListDTO, len(lists))
	for i, list := range lists {
		dtos[i] = ToTaskListDTO(list)
	}
	return dtos
}
