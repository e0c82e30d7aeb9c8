package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/notifier"
	"github.com/taskmgmt/task-management-api/internal/repository"
)

const (
	maxTaskTitleLength       = 200
	maxTaskDescriptionLength = 1000
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo     repository.TaskRepository
	taskListRepo repository.TaskListRepository
	userRepo     repository.UserRepository
	notifier     notifier.Notifier
	log          *logrus.Logger
}

// NewTaskService creates a new TaskService. The notifier is best-effort:
// its failures are logged, never propagated.
func NewTaskService(
	taskRepo repository.TaskRepository,
	taskListRepo repository.TaskListRepository,
	userRepo repository.UserRepository,
	n notifier.Notifier,
	log *logrus.Logger,
) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		taskListRepo: taskListRepo,
		userRepo:     userRepo,
		notifier:     n,
		log:          log,
	}
}

// CreateTaskInput represents input for creating a task.
type CreateTaskInput struct {
	Title          string
	Description    string
	TaskListID     uint64
	Priority       models.TaskPriority
	DueDate        *time.Time
	AssignedUserID *uint64
}

// UpdateTaskInput represents a partial task update. Nil fields are left untouched.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	Priority       *models.TaskPriority
	DueDate        *time.Time
	AssignedUserID *uint64
}

// ListTasksInput holds the filters for listing the tasks of a list.
// All filters are AND-combined; nil means no constraint.
type ListTasksInput struct {
	TaskListID     uint64
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *uint64
}

// Create validates and persists a new task. The task list existence check
// runs before the duplicate-title check so a missing list reports not-found
// even when the title would also collide. A task created with an assignee
// triggers a best-effort assignment notification.
func (s *TaskService) Create(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	if title == "" {
		return nil, fmt.Errorf("%w: task title cannot be empty", ErrInvalidData)
	}
	if len(title) > maxTaskTitleLength {
		return nil, fmt.Errorf("%w: task title must be at most %d characters", ErrInvalidData, maxTaskTitleLength)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: task description cannot be empty", ErrInvalidData)
	}
	if len(description) > maxTaskDescriptionLength {
		return nil, fmt.Errorf("%w: task description must be at most %d characters", ErrInvalidData, maxTaskDescriptionLength)
	}
	if input.TaskListID == 0 {
		return nil, fmt.Errorf("%w: task list ID must be positive", ErrInvalidData)
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !priority.Valid() {
		return nil, fmt.Errorf("%w: invalid task priority '%s'", ErrInvalidData, priority)
	}

	if input.DueDate != nil && isPastDue(*input.DueDate) {
		return nil, fmt.Errorf("%w: due date cannot be in the past", ErrInvalidData)
	}

	list, err := s.taskListRepo.FindByID(input.TaskListID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: task list with id %d not found", ErrNotFound, input.TaskListID)
		}
		return nil, fmt.Errorf("failed to find task list: %w", err)
	}

	taken, err := s.taskRepo.ExistsByTitleInList(title, input.TaskListID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check task title: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: task with title '%s' already exists in this list", ErrDuplicate, title)
	}

	var assignee *models.User
	if input.AssignedUserID != nil {
		assignee, err = s.lookupAssignee(*input.AssignedUserID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	task := &models.Task{
		Title:          title,
		Description:    description,
		Status:         models.TaskStatusPending,
		Priority:       priority,
		DueDate:        input.DueDate,
		TaskListID:     input.TaskListID,
		AssignedUserID: input.AssignedUserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if assignee != nil {
		s.notifyAssignment(assignee, task, list)
	}

	return task, nil
}

// GetByID retrieves a task by ID.
func (s *TaskService) GetByID(id uint64) (*models.Task, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: task ID must be positive", ErrInvalidData)
	}

	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: task with id %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// ListByList retrieves the tasks of a list matching the filters. The list
// must exist, and so must a filtered-on assignee: filtering by an unknown
// user is a not-found error, not an empty result.
func (s *TaskService) ListByList(input ListTasksInput) ([]models.Task, error) {
	if input.TaskListID == 0 {
		return nil, fmt.Errorf("%w: task list ID must be positive", ErrInvalidData)
	}

	if _, err := s.taskListRepo.FindByID(input.TaskListID); err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: task list with id %d not found", ErrNotFound, input.TaskListID)
		}
		return nil, fmt.Errorf("failed to find task list: %w", err)
	}

	if input.Status != nil && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid task status '%s'", ErrInvalidData, *input.Status)
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return nil, fmt.Errorf("%w: invalid task priority '%s'", ErrInvalidData, *input.Priority)
	}
	if input.AssignedUserID != nil {
		if _, err := s.lookupAssignee(*input.AssignedUserID); err != nil {
			return nil, err
		}
	}

	tasks, err := s.taskRepo.ListFiltered(repository.TaskFilter{
		TaskListID:     input.TaskListID,
		Status:         input.Status,
		Priority:       input.Priority,
		AssignedUserID: input.AssignedUserID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// ListByAssignee retrieves all tasks assigned to a user across lists.
func (s *TaskService) ListByAssignee(userID uint64) ([]models.Task, error) {
	if _, err := s.lookupAssignee(userID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByAssignee(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// Update applies a partial update with the same per-field rules as Create.
// The title duplicate check excludes the task's own record, and the
// due-date-in-past check only applies when a new due date is supplied.
func (s *TaskService) Update(id uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: task title cannot be empty", ErrInvalidData)
		}
		if len(title) > maxTaskTitleLength {
			return nil, fmt.Errorf("%w: task title must be at most %d characters", ErrInvalidData, maxTaskTitleLength)
		}
		taken, err := s.taskRepo.ExistsByTitleInList(title, task.TaskListID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check task title: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: task with title '%s' already exists in this list", ErrDuplicate, title)
		}
		task.Title = title
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: task description cannot be empty", ErrInvalidData)
		}
		if len(description) > maxTaskDescriptionLength {
			return nil, fmt.Errorf("%w: task description must be at most %d characters", ErrInvalidData, maxTaskDescriptionLength)
		}
		task.Description = description
	}

	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, fmt.Errorf("%w: invalid task priority '%s'", ErrInvalidData, *input.Priority)
		}
		task.Priority = *input.Priority
	}

	if input.DueDate != nil {
		if isPastDue(*input.DueDate) {
			return nil, fmt.Errorf("%w: due date cannot be in the past", ErrInvalidData)
		}
		task.DueDate = input.DueDate
	}

	if input.AssignedUserID != nil {
		if _, err := s.lookupAssignee(*input.AssignedUserID); err != nil {
			return nil, err
		}
		task.AssignedUserID = input.AssignedUserID
	}

	task.UpdatedAt = time.Now().UTC()

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// UpdateStatus sets a task's status. Any transition is permitted, including
// reopening a completed or cancelled task. Moving to completed notifies the
// assignee, best-effort.
func (s *TaskService) UpdateStatus(id uint64, status models.TaskStatus) (*models.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid task status '%s'", ErrInvalidData, status)
	}

	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateStatus(id, status); err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	task, err = s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if status == models.TaskStatusCompleted && task.AssignedUserID != nil {
		s.notifyCompletion(task)
	}

	return task, nil
}

// Assign sets or clears a task's assignee. A nil userID unassigns.
func (s *TaskService) Assign(id uint64, userID *uint64) (*models.Task, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var assignee *models.User
	if userID != nil {
		assignee, err = s.lookupAssignee(*userID)
		if err != nil {
			return nil, err
		}
	}

	if err := s.taskRepo.AssignUser(id, userID); err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	task, err = s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if assignee != nil {
		list, err := s.taskListRepo.FindByID(task.TaskListID)
		if err == nil {
			s.notifyAssignment(assignee, task, list)
		}
	}

	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(id uint64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

// Complete marks a task as completed.
func (s *TaskService) Complete(id uint64) (*models.Task, error) {
	return s.UpdateStatus(id, models.TaskStatusCompleted)
}

// Reopen moves a task back to pending.
func (s *TaskService) Reopen(id uint64) (*models.Task, error) {
	return s.UpdateStatus(id, models.TaskStatusPending)
}

func (s *TaskService) lookupAssignee(userID uint64) (*models.User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidData)
	}

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user with id %d not found", ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

func (s *TaskService) notifyAssignment(user *models.User, task *models.Task, list *models.TaskList) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyAssignment(user, task, list); err != nil {
		s.log.WithError(err).WithField("task_id", task.ID).Warn("assignment notification failed")
	}
}

func (s *TaskService) notifyCompletion(task *models.Task) {
	if s.notifier == nil || task.AssignedUserID == nil {
		return
	}

	user, err := s.userRepo.FindByID(*task.AssignedUserID)
	if err != nil {
		return
	}
	list, err := s.taskListRepo.FindByID(task.TaskListID)
	if err != nil {
		return
	}

	if err := s.notifier.NotifyCompletion(user, task, list); err != nil {
		s.log.WithError(err).WithField("task_id", task.ID).Warn("completion notification failed")
	}
}

// Due dates are compared in UTC at write time. Past dates already stored
// are never re-validated.
func isPastDue(t time.Time) bool {
	return t.UTC().Before(time.Now().UTC())
}
