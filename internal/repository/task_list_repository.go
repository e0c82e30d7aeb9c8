package repository

import (
	"gorm.io/gorm"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// GormTaskListRepository is a GORM implementation of TaskListRepository
type GormTaskListRepository struct {
	db *gorm.DB
}

// NewTaskListRepository creates a new TaskListRepository
func NewTaskListRepository(db *gorm.DB) TaskListRepository {
	return &GormTaskListRepository{db: db}
}

// Create creates a new task list
func (r *GormTaskListRepository) Create(list *models.TaskList) error {
	return r.db.Create(list).Error
}

// FindByID finds a task list by ID
func (r *GormTaskListRepository) FindByID(id uint64) (*models.TaskList, error) {
	var list models.TaskList
	if err := r.db.First(&list, id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// List retrieves all task lists
func (r *GormTaskListRepository) List() ([]models.TaskList, error) {
	var lists []models.TaskList
	if err := r.db.Order("task_lists.id ASC").Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// Update updates a task list
func (r *GormTaskListRepository) Update(list *models.TaskList) error {
	return r.db.Save(list).Error
}

// Delete deletes a task list and cascades to its tasks
func (r *GormTaskListRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_list_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.TaskList{}, id).Error
	})
}

// ExistsByName reports whether a list name is taken
func (r *GormTaskListRepository) ExistsByName(name string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.TaskList{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
