package models

import "time"

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

// Valid reports whether s is one of the known task statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted, TaskStatusCancelled:
		return true
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
	TaskPriorityUrgent TaskPriority = "urgent"
)

// Valid reports whether p is one of the known task priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	}
	return false
}

type Task struct {
	ID             uint64       `gorm:"primarykey" json:"id"`
	Title          string       `gorm:"type:varchar(200);not null;index:idx_tasks_title_list,unique" json:"title"`
	Description    string       `gorm:"type:varchar(1000);not null" json:"description"`
	Status         TaskStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Priority       TaskPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	DueDate        *time.Time   `json:"due_date"`
	TaskListID     uint64       `gorm:"not null;index:idx_tasks_title_list,unique" json:"task_list_id"`
	AssignedUserID *uint64      `json:"assigned_user_id"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`

	// Relations
	TaskList     TaskList `gorm:"foreignKey:TaskListID" json:"task_list,omitempty"`
	AssignedUser *User    `gorm:"foreignKey:AssignedUserID" json:"assigned_user,omitempty"`
}
