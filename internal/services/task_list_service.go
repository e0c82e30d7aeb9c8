package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/repository"
)

const (
	maxListNameLength        = 100
	maxListDescriptionLength = 500
)

// TaskListService handles task list business logic.
type TaskListService struct {
	taskListRepo repository.TaskListRepository
	taskRepo     repository.TaskRepository
}

// NewTaskListService creates a new TaskListService.
func NewTaskListService(taskListRepo repository.TaskListRepository, taskRepo repository.TaskRepository) *TaskListService {
	return &TaskListService{
		taskListRepo: taskListRepo,
		taskRepo:     taskRepo,
	}
}

// ListStats holds a task list's completion statistics. The percentage is
// computed over all tasks of the list regardless of any display filter and
// is not rounded; that is left to presentation.
type ListStats struct {
	TotalTasks           int64
	CompletedTasks       int64
	CompletionPercentage float64
}

// Create validates and persists a new task list.
func (s *TaskListService) Create(name string, description *string) (*models.TaskList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: task list name cannot be empty", ErrInvalidData)
	}
	if len(name) > maxListNameLength {
		return nil, fmt.Errorf("%w: task list name must be at most %d characters", ErrInvalidData, maxListNameLength)
	}
	if description != nil && len(*description) > maxListDescriptionLength {
		return nil, fmt.Errorf("%w: description must be at most %d characters", ErrInvalidData, maxListDescriptionLength)
	}

	taken, err := s.taskListRepo.ExistsByName(name, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check task list name: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: task list with name '%s' already exists", ErrDuplicate, name)
	}

	now := time.Now().UTC()
	list := &models.TaskList{
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.taskListRepo.Create(list); err != nil {
		return nil, fmt.Errorf("failed to create task list: %w", err)
	}

	return list, nil
}

// GetByID retrieves a task list by ID.
func (s *TaskListService) GetByID(id uint64) (*models.TaskList, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: task list ID must be positive", ErrInvalidData)
	}

	list, err := s.taskListRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: task list with id %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find task list: %w", err)
	}

	return list, nil
}

// List retrieves all task lists.
func (s *TaskListService) List() ([]models.TaskList, error) {
	lists, err := s.taskListRepo.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list task lists: %w", err)
	}
	return lists, nil
}

// Update applies a partial update. The name duplicate check excludes the
// list's own record.
func (s *TaskListService) Update(id uint64, name *string, description *string) (*models.TaskList, error) {
	list, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, fmt.Errorf("%w: task list name cannot be empty", ErrInvalidData)
		}
		if len(trimmed) > maxListNameLength {
			return nil, fmt.Errorf("%w: task list name must be at most %d characters", ErrInvalidData, maxListNameLength)
		}
		if trimmed != list.Name {
			taken, err := s.taskListRepo.ExistsByName(trimmed, id)
			if err != nil {
				return nil, fmt.Errorf("failed to check task list name: %w", err)
			}
			if taken {
				return nil, fmt.Errorf("%w: task list with name '%s' already exists", ErrDuplicate, trimmed)
			}
		}
		list.Name = trimmed
	}

	if description != nil {
		if len(*description) > maxListDescriptionLength {
			return nil, fmt.Errorf("%w: description must be at most %d characters", ErrInvalidData, maxListDescriptionLength)
		}
		list.Description = description
	}

	list.UpdatedAt = time.Now().UTC()

	if err := s.taskListRepo.Update(list); err != nil {
		return nil, fmt.Errorf("failed to update task list: %w", err)
	}

	return list, nil
}

// Delete removes a task list and all of its tasks.
func (s *TaskListService) Delete(id uint64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	if err := s.taskListRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task list: %w", err)
	}

	return nil
}

// Stats computes the completion statistics of a list over its full,
// unfiltered task set. An empty list has a completion percentage of 0.
func (s *TaskListService) Stats(id uint64) (*ListStats, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	total, err := s.taskRepo.CountByList(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}

	completed, err := s.taskRepo.CountCompletedByList(id)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed tasks: %w", err)
	}

	stats := &ListStats{
		TotalTasks:     total,
		CompletedTasks: completed,
	}
	if total > 0 {
		stats.CompletionPercentage = float64(completed) / float64(total) * 100
	}

	return stats, nil
}
