package notifier

import (
	"github.com/sirupsen/logrus"

	"github.com/taskmgmt/task-management-api/internal/models"
)

// Notifier delivers best-effort notifications about task events. Callers
// treat failures as non-fatal; an implementation must never panic.
type Notifier interface {
	// NotifyAssignment tells a user a task was assigned to them.
	NotifyAssignment(user *models.User, task *models.Task, list *models.TaskList) error

	// NotifyCompletion tells the assignee their task was marked completed.
	NotifyCompletion(user *models.User, task *models.Task, list *models.TaskList) error
}

// LogNotifier writes notifications to the process log instead of sending
// real email. Useful for development and as the default wiring.
type LogNotifier struct {
	log *logrus.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(log *logrus.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// NotifyAssignment logs a task-assignment notification.
func (n *LogNotifier) NotifyAssignment(user *models.User, task *models.Task, list *models.TaskList) error {
	n.log.WithFields(logrus.Fields{
		"type":      "task_assignment",
		"recipient": user.Email,
		"task_id":   task.ID,
		"title":     task.Title,
		"list":      list.Name,
		"priority":  task.Priority,
	}).Info("task assigned")
	return nil
}

// NotifyCompletion logs a task-completion notification.
func (n *LogNotifier) NotifyCompletion(user *models.User, task *models.Task, list *models.TaskList) error {
	n.log.WithFields(logrus.Fields{
		"type":      "task_completion",
		"recipient": user.Email,
		"task_id":   task.ID,
		"title":     task.Title,
		"list":      list.Name,
	}).Info("task completed")
	return nil
}
