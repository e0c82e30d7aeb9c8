package services

import (
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/repository"
)

// recordingNotifier captures notifications for assertions and can be told
// to fail every delivery.
type recordingNotifier struct {
	assignments []uint64
	completions []uint64
	fail        bool
}

func (n *recordingNotifier) NotifyAssignment(user *models.User, task *models.Task, list *models.TaskList) error {
	if n.fail {
		return errors.New("notifier unavailable")
	}
	n.assignments = append(n.assignments, task.ID)
	return nil
}

func (n *recordingNotifier) NotifyCompletion(user *models.User, task *models.Task, list *models.TaskList) error {
	if n.fail {
		return errors.New("notifier unavailable")
	}
	n.completions = append(n.completions, task.ID)
	return nil
}

type testEnv struct {
	db           *gorm.DB
	userRepo     repository.UserRepository
	taskListRepo repository.TaskListRepository
	taskRepo     repository.TaskRepository
	users        *UserService
	taskLists    *TaskListService
	tasks        *TaskService
	notifier     *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.TaskList{},
		&models.Task{},
	)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	taskListRepo := repository.NewTaskListRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	n := &recordingNotifier{}

	log := logrus.New()

	return &testEnv{
		db:           db,
		userRepo:     userRepo,
		taskListRepo: taskListRepo,
		taskRepo:     taskRepo,
		users:        NewUserService(userRepo),
		taskLists:    NewTaskListService(taskListRepo, taskRepo),
		tasks:        NewTaskService(taskRepo, taskListRepo, userRepo, n, log),
		notifier:     n,
	}
}

func (e *testEnv) createUser(t *testing.T, username, email string) *models.User {
	t.Helper()

	user, err := e.users.Create(CreateUserInput{
		Username: username,
		Email:    email,
		FullName: "Test User",
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createList(t *testing.T, name string) *models.TaskList {
	t.Helper()

	list, err := e.taskLists.Create(name, nil)
	require.NoError(t, err)
	return list
}

func (e *testEnv) createTask(t *testing.T, title string, listID uint64) *models.Task {
	t.Helper()

	task, err := e.tasks.Create(CreateTaskInput{
		Title:       title,
		Description: "Test description",
		TaskListID:  listID,
	})
	require.NoError(t, err)
	return task
}
