package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmgmt/task-management-api/internal/dto"
)

func (e *apiTestEnv) createListAPI(t *testing.T, token, name string) uint64 {
	t.Helper()

	w := e.request(t, http.MethodPost, "/task-lists", token, gin.H{"name": name})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.TaskListDTO
	decodeJSON(t, w, &resp)
	return resp.ID
}

func (e *apiTestEnv) createTaskAPI(t *testing.T, token string, listID uint64, title string) dto.TaskDTO {
	t.Helper()

	w := e.request(t, http.MethodPost, fmt.Sprintf("/task-lists/%d/tasks", listID), token, gin.H{
		"title":       title,
		"description": "Test description",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.TaskDTO
	decodeJSON(t, w, &resp)
	return resp
}

func TestTaskAPI_CreateInList(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")

	task := env.createTaskAPI(t, token, listID, "Write report")
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "pending", string(task.Status))
	assert.Equal(t, "medium", string(task.Priority))
	assert.Equal(t, listID, task.TaskListID)
}

func TestTaskAPI_Create_MissingList(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")

	w := env.request(t, http.MethodPost, "/tasks", token, gin.H{
		"title":        "Write report",
		"description":  "Test description",
		"task_list_id": 9999,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskAPI_Create_DuplicateTitle(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")
	env.createTaskAPI(t, token, listID, "Write report")

	w := env.request(t, http.MethodPost, fmt.Sprintf("/task-lists/%d/tasks", listID), token, gin.H{
		"title":       "Write report",
		"description": "Test description",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTaskAPI_ListInList_Stats(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")

	done := env.createTaskAPI(t, token, listID, "Task A")
	env.createTaskAPI(t, token, listID, "Task B")
	env.createTaskAPI(t, token, listID, "Task C")
	env.createTaskAPI(t, token, listID, "Task D")

	w := env.request(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/status", done.ID), token, gin.H{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/task-lists/%d/tasks", listID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.TaskListTasksResponse
	decodeJSON(t, w, &resp)
	assert.Len(t, resp.Tasks, 4)
	assert.Equal(t, int64(4), resp.TotalTasks)
	assert.InDelta(t, 25.0, resp.CompletionPercentage, 0.0001)

	// Filters narrow the tasks but never the statistics.
	w = env.request(t, http.MethodGet, fmt.Sprintf("/task-lists/%d/tasks?status=completed", listID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	decodeJSON(t, w, &resp)
	assert.Len(t, resp.Tasks, 1)
	assert.Equal(t, int64(4), resp.TotalTasks)
	assert.InDelta(t, 25.0, resp.CompletionPercentage, 0.0001)
}

func TestTaskAPI_ListInList_InvalidStatusFilter(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")

	w := env.request(t, http.MethodGet, fmt.Sprintf("/task-lists/%d/tasks?status=done-ish", listID), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskAPI_GetInList_WrongList(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	backlogID := env.createListAPI(t, token, "Backlog")
	iceboxID := env.createListAPI(t, token, "Icebox")
	task := env.createTaskAPI(t, token, backlogID, "Write report")

	// The task exists, but not in that list.
	w := env.request(t, http.MethodGet, fmt.Sprintf("/task-lists/%d/tasks/%d", iceboxID, task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/task-lists/%d/tasks/%d", backlogID, task.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTaskAPI_AssignAndUnassign(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")
	task := env.createTaskAPI(t, token, listID, "Write report")

	var me struct {
		ID uint64 `json:"id"`
	}
	w := env.request(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeJSON(t, w, &me)

	w = env.request(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/assign", task.ID), token, gin.H{
		"user_id": me.ID,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.TaskDTO
	decodeJSON(t, w, &got)
	require.NotNil(t, got.AssignedUserID)
	assert.Equal(t, me.ID, *got.AssignedUserID)

	// A null user_id unassigns.
	w = env.request(t, http.MethodPatch, fmt.Sprintf("/tasks/%d/assign", task.ID), token, gin.H{
		"user_id": nil,
	})
	require.Equal(t, http.StatusOK, w.Code)

	decodeJSON(t, w, &got)
	assert.Nil(t, got.AssignedUserID)
}

func TestTaskAPI_Update(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")
	task := env.createTaskAPI(t, token, listID, "Write report")

	w := env.request(t, http.MethodPut, fmt.Sprintf("/tasks/%d", task.ID), token, gin.H{
		"title":    "Write the final report",
		"priority": "high",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got dto.TaskDTO
	decodeJSON(t, w, &got)
	assert.Equal(t, "Write the final report", got.Title)
	assert.Equal(t, "high", string(got.Priority))
	assert.Equal(t, "Test description", got.Description)
}

func TestTaskAPI_Delete(t *testing.T) {
	env := newAPITestEnv(t)
	token := env.registerAndLogin(t, "alice")
	listID := env.createListAPI(t, token, "Backlog")
	task := env.createTaskAPI(t, token, listID, "Write report")

	w := env.request(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", task.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, fmt.Sprintf("/tasks/%d", task.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskAPI_RequiresAuth(t *testing.T) {
	env := newAPITestEnv(t)

	w := env.request(t, http.MethodGet, "/tasks/1", "", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
