package services

import (
	"fmt"
	"time"

	"github.com/taskmgmt/task-management-api/internal/auth"
	"github.com/taskmgmt/task-management-api/internal/models"
)

const minPasswordLength = 8

// AuthService orchestrates registration, login, token verification and
// password changes. It holds no session state; the token is the only
// credential.
type AuthService struct {
	users *UserService
	jwt   *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, jwt *auth.JWTManager) *AuthService {
	return &AuthService{
		users: users,
		jwt:   jwt,
	}
}

// LoginResult carries the issued token and the authenticated user.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *models.User
}

// Register hashes the password and creates the user account.
func (s *AuthService) Register(username, email, fullName, password string) (*models.User, error) {
	if len(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidData, minPasswordLength)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.Create(CreateUserInput{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
	})
}

// Login authenticates by username or email and issues an access token.
// A missing user, a user without a password, and a wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(identifier, password string) (*LoginResult, error) {
	user, err := s.users.FindByIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == "" {
		return nil, fmt.Errorf("%w: incorrect username or password", ErrInvalidCredentials)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: incorrect username or password", ErrInvalidCredentials)
	}

	token, exp, err := s.jwt.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		ExpiresAt:   exp,
		User:        user,
	}, nil
}

// CurrentUser resolves a bearer token to its user. Any failure, bad token
// or missing user, is an authorization failure.
func (s *AuthService) CurrentUser(token string) (*models.User, error) {
	userID, err := s.jwt.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", ErrUnauthorized)
	}

	return user, nil
}

// ChangePassword verifies the current password and stores a hash of the new one.
func (s *AuthService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if user.PasswordHash == "" || !auth.CheckPassword(currentPassword, user.PasswordHash) {
		return fmt.Errorf("%w: current password is incorrect", ErrInvalidCredentials)
	}

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidData, minPasswordLength)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if _, err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return err
	}

	return nil
}
