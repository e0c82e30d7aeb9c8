package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListFiltered retrieves the tasks of a list matching the filter
func (r *GormTaskRepository) ListFiltered(filter TaskFilter) ([]models.Task, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.task_list_id = ?", filter.TaskListID)

	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssignedUserID != nil {
		query = query.Where("tasks.assigned_user_id = ?", *filter.AssignedUserID)
	}

	if err := query.Order("tasks.id ASC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	return tasks, nil
}

// ListByList retrieves all tasks of a list, unfiltered
func (r *GormTaskRepository) ListByList(taskListID uint64) ([]models.Task, error) {
	return r.ListFiltered(TaskFilter{TaskListID: taskListID})
}

// ListByAssignee retrieves all tasks assigned to a user across lists
func (r *GormTaskRepository) ListByAssignee(userID uint64) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("assigned_user_id = ?", userID).
		Order("tasks.id ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// UpdateStatus sets the status of a task
func (r *GormTaskRepository) UpdateStatus(id uint64, status models.TaskStatus) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// AssignUser sets or clears the assignee of a task
func (r *GormTaskRepository) AssignUser(id uint64, userID *uint64) error {
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"assigned_user_id": userID,
			"updated_at":       time.Now().UTC(),
		}).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// ExistsByTitleInList reports whether a title is taken within a list
func (r *GormTaskRepository) ExistsByTitleInList(title string, taskListID uint64, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.Task{}).
		Where("title = ? AND task_list_id = ?", title, taskListID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByList counts all tasks of a list
func (r *GormTaskRepository) CountByList(taskListID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("task_list_id = ?", taskListID).
		Count(&count).Error
	return count, err
}

// CountCompletedByList counts the completed tasks of a list
func (r *GormTaskRepository) CountCompletedByList(taskListID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("task_list_id = ? AND status = ?", taskListID, models.TaskStatusCompleted).
		Count(&count).Error
	return count, err
}
