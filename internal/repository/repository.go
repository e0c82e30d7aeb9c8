package repository

import (
	"github.com/taskmgmt/task-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// List retrieves users, optionally filtered by status
	List(status *models.UserStatus) ([]models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete deletes a user and unassigns their tasks
	Delete(id uint64) error

	// ExistsByUsername reports whether a username is taken, excluding excludeID when non-zero
	ExistsByUsername(username string, excludeID uint64) (bool, error)

	// ExistsByEmail reports whether an email is taken, excluding excludeID when non-zero
	ExistsByEmail(email string, excludeID uint64) (bool, error)
}

// TaskListRepository defines the interface for task list data access
type TaskListRepository interface {
	// Create creates a new task list
	Create(list *models.TaskList) error

	// FindByID finds a task list by ID
	FindByID(id uint64) (*models.TaskList, error)

	// List retrieves all task lists
	List() ([]models.TaskList, error)

	// Update updates a task list
	Update(list *models.TaskList) error

	// Delete deletes a task list together with its tasks
	Delete(id uint64) error

	// ExistsByName reports whether a list name is taken, excluding excludeID when non-zero
	ExistsByName(name string, excludeID uint64) (bool, error)
}

// TaskFilter holds the AND-combined filters for listing tasks within a list.
// A nil field means no constraint on that field.
type TaskFilter struct {
	TaskListID     uint64
	Status         *models.TaskStatus
	Priority       *models.TaskPriority
	AssignedUserID *uint64
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// ListFiltered retrieves the tasks of a list matching the filter
	ListFiltered(filter TaskFilter) ([]models.Task, error)

	// ListByList retrieves all tasks of a list, unfiltered
	ListByList(taskListID uint64) ([]models.Task, error)

	// ListByAssignee retrieves all tasks assigned to a user across lists
	ListByAssignee(userID uint64) ([]models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// UpdateStatus sets the status of a task
	UpdateStatus(id uint64, status models.TaskStatus) error

	// AssignUser sets or clears the assignee of a task
	AssignUser(id uint64, userID *uint64) error

	// Delete deletes a task
	Delete(id uint64) error

	// ExistsByTitleInList reports whether a title is taken within a list,
	// excluding excludeID when non-zero
	ExistsByTitleInList(title string, taskListID uint64, excludeID uint64) (bool, error)

	// CountByList counts all tasks of a list
	CountByList(taskListID uint64) (int64, error)

	// CountCompletedByList counts the completed tasks of a list
	CountCompletedByList(taskListID uint64) (int64, error)
}
