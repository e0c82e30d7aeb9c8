package services

import (
	"errors"

	"gorm.io/gorm"
)

// Domain error kinds. Services wrap these with context via fmt.Errorf and
// the boundary layer maps each kind to an HTTP status exactly once.
var (
	ErrInvalidData        = errors.New("invalid data")
	ErrNotFound           = errors.New("entity not found")
	ErrDuplicate          = errors.New("duplicate entity")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
