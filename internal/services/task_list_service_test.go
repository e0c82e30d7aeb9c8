package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmgmt/task-management-api/internal/models"
)

func TestTaskListService_Create(t *testing.T) {
	env := newTestEnv(t)

	desc := "Things to do this sprint"
	list, err := env.taskLists.Create("Sprint 12", &desc)
	require.NoError(t, err)
	assert.NotZero(t, list.ID)
	assert.Equal(t, "Sprint 12", list.Name)
	require.NotNil(t, list.Description)
	assert.Equal(t, desc, *list.Description)
}

func TestTaskListService_Create_NilDescription(t *testing.T) {
	env := newTestEnv(t)

	list, err := env.taskLists.Create("Backlog", nil)
	require.NoError(t, err)

	got, err := env.taskLists.GetByID(list.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Description)
}

func TestTaskListService_Create_EmptyName(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.taskLists.Create("   ", nil)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestTaskListService_Create_NameTooLong(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.taskLists.Create(strings.Repeat("x", 101), nil)
	assert.ErrorIs(t, err, ErrInvalidData)
}

func TestTaskListService_Create_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.createList(t, "Backlog")

	_, err := env.taskLists.Create("Backlog", nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTaskListService_Update(t *testing.T) {
	env := newTestEnv(t)
	list := env.createList(t, "Backlog")

	name := "Icebox"
	desc := "Parked work"
	updated, err := env.taskLists.Update(list.ID, &name, &desc)
	require.NoError(t, err)
	assert.Equal(t, "Icebox", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Parked work", *updated.Description)
}

func TestTaskListService_Update_OwnNameNotDuplicate(t *testing.T) {
	env := newTestEnv(t)
	list := env.createList(t, "Backlog")

	name := "Backlog"
	_, err := env.taskLists.Update(list.ID, &name, nil)
	require.NoError(t, err)
}

func TestTaskListService_Update_DuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.createList(t, "Backlog")
	other := env.createList(t, "Icebox")

	name := "Backlog"
	_, err := env.taskLists.Update(other.ID, &name, nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestTaskListService_Delete_CascadesTasks(t *testing.T) {
	env := newTestEnv(t)
	list := env.createList(t, "Backlog")
	task := env.createTask(t, "Write report", list.ID)

	err := env.taskLists.Delete(list.ID)
	require.NoError(t, err)

	_, err = env.taskLists.GetByID(list.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = env.tasks.GetByID(task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskListService_Stats(t *testing.T) {
	env := newTestEnv(t)
	list := env.createList(t, "Backlog")

	done := env.createTask(t, "Task A", list.ID)
	env.createTask(t, "Task B", list.ID)
	env.createTask(t, "Task C", list.ID)
	env.createTask(t, "Task D", list.ID)

	_, err := env.tasks.UpdateStatus(done.ID, models.TaskStatusCompleted)
	require.NoError(t, err)

	stats, err := env.taskLists.Stats(list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalTasks)
	assert.Equal(t, int64(1), stats.CompletedTasks)
	assert.InDelta(t, 25.0, stats.CompletionPercentage, 0.0001)
}

func TestTaskListService_Stats_EmptyList(t *testing.T) {
	env := newTestEnv(t)
	list := env.createList(t, "Backlog")

	stats, err := env.taskLists.Stats(list.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalTasks)
	assert.Equal(t, 0.0, stats.CompletionPercentage)
}

func TestTaskListService_Stats_ListNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.taskLists.Stats(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
