package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List retrieves users, optionally filtered by status
func (r *GormUserRepository) List(status *models.UserStatus) ([]models.User, error) {
	var users []models.User
	query := r.db.Model(&models.User{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Order("users.id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Update updates a user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user. Tasks assigned to the user are unassigned in the
// same transaction so they survive the deletion.
func (r *GormUserRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("assigned_user_id = ?", id).
			Updates(map[string]interface{}{
				"assigned_user_id": nil,
				"updated_at":       time.Now().UTC(),
			}).Error
		if err != nil {
			return err
		}

		return tx.Delete(&models.User{}, id).Error
	})
}

// ExistsByUsername reports whether a username is taken
func (r *GormUserRepository) ExistsByUsername(username string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("username = ?", username)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByEmail reports whether an email is taken
func (r *GormUserRepository) ExistsByEmail(email string, excludeID uint64) (bool, error) {
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
