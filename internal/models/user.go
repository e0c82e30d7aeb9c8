package models

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName     string     `gorm:"type:varchar(100);not null" json:"full_name"`
	Status       UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	PasswordHash string     `gorm:"type:varchar(255)" json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Relations
	AssignedTasks []Task `gorm:"foreignKey:AssignedUserID" json:"-"`
}
