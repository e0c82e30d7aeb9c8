package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/repository"
)

// UserService handles user management business logic.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents the data for creating a user.
type CreateUserInput struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Status       models.UserStatus
}

// UpdateUserInput represents a partial user update. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	FullName *string
	Status   *models.UserStatus
}

// Create validates and persists a new user. Emails are stored trimmed and
// lowercased; usernames are trimmed but case-sensitive.
func (s *UserService) Create(input CreateUserInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	fullName := strings.TrimSpace(input.FullName)

	if len(username) < 3 {
		return nil, fmt.Errorf("%w: username must be at least 3 characters long", ErrInvalidData)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidData)
	}
	if fullName == "" {
		return nil, fmt.Errorf("%w: full name cannot be empty", ErrInvalidData)
	}

	status := input.Status
	if status == "" {
		status = models.UserStatusActive
	}

	taken, err := s.userRepo.ExistsByUsername(username, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: user with username '%s' already exists", ErrDuplicate, username)
	}

	taken, err = s.userRepo.ExistsByEmail(email, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("%w: user with email '%s' already exists", ErrDuplicate, email)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		Status:       status,
		PasswordHash: input.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(id uint64) (*models.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: user ID must be positive", ErrInvalidData)
	}

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user with id %d not found", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetByUsername retrieves a user by username.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username cannot be empty", ErrInvalidData)
	}

	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user with username '%s' not found", ErrNotFound, username)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidData)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if isRecordNotFound(err) {
			return nil, fmt.Errorf("%w: user with email '%s' not found", ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// List retrieves users, optionally filtered by status.
func (s *UserService) List(status *models.UserStatus) ([]models.User, error) {
	users, err := s.userRepo.List(status)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Update applies a partial update with the same per-field rules as Create.
// Duplicate checks exclude the user's own record.
func (s *UserService) Update(id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if len(username) < 3 {
			return nil, fmt.Errorf("%w: username must be at least 3 characters long", ErrInvalidData)
		}
		taken, err := s.userRepo.ExistsByUsername(username, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: user with username '%s' already exists", ErrDuplicate, username)
		}
		user.Username = username
	}

	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: invalid email format", ErrInvalidData)
		}
		taken, err := s.userRepo.ExistsByEmail(email, id)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if taken {
			return nil, fmt.Errorf("%w: user with email '%s' already exists", ErrDuplicate, email)
		}
		user.Email = email
	}

	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, fmt.Errorf("%w: full name cannot be empty", ErrInvalidData)
		}
		user.FullName = fullName
	}

	if input.Status != nil {
		user.Status = *input.Status
	}

	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// UpdatePassword replaces the stored password hash.
func (s *UserService) UpdatePassword(id uint64, passwordHash string) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}

// Delete removes a user. Tasks assigned to the user are unassigned, not deleted.
func (s *UserService) Delete(id uint64) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	if err := s.userRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return nil
}

// Activate sets a user's status to active.
func (s *UserService) Activate(id uint64) (*models.User, error) {
	status := models.UserStatusActive
	return s.Update(id, UpdateUserInput{Status: &status})
}

// Deactivate sets a user's status to inactive.
func (s *UserService) Deactivate(id uint64) (*models.User, error) {
	status := models.UserStatusInactive
	return s.Update(id, UpdateUserInput{Status: &status})
}

// FindByIdentifier looks a user up by username, then by email. It returns
// (nil, nil) when neither matches; the caller decides what that means.
func (s *UserService) FindByIdentifier(identifier string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	user, err := s.userRepo.FindByUsername(identifier)
	if err == nil {
		return user, nil
	}
	if !isRecordNotFound(err) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	user, err = s.userRepo.FindByEmail(strings.ToLower(identifier))
	if err == nil {
		return user, nil
	}
	if !isRecordNotFound(err) {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return nil, nil
}
