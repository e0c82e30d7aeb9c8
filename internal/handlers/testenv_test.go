package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskmgmt/task-management-api/internal/auth"
	"github.com/taskmgmt/task-management-api/internal/middleware"
	"github.com/taskmgmt/task-management-api/internal/models"
	"github.com/taskmgmt/task-management-api/internal/notifier"
	"github.com/taskmgmt/task-management-api/internal/repository"
	"github.com/taskmgmt/task-management-api/internal/services"
)

type apiTestEnv struct {
	router      *gin.Engine
	users       *services.UserService
	taskLists   *services.TaskListService
	tasks       *services.TaskService
	authService *services.AuthService
}

// newAPITestEnv wires the full HTTP surface against an in-memory database,
// mirroring the route layout of cmd/server.
func newAPITestEnv(t *testing.T) *apiTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&models.User{}, &models.TaskList{}, &models.Task{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	log := logrus.New()

	userRepo := repository.NewUserRepository(db)
	taskListRepo := repository.NewTaskListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	jwtManager := auth.NewJWTManager("test-secret", 30*time.Minute)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userService, jwtManager)
	taskListService := services.NewTaskListService(taskListRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, taskListRepo, userRepo, notifier.NewLogNotifier(log), log)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService)
	taskListHandler := NewTaskListHandler(taskListService)
	taskHandler := NewTaskHandler(taskService, taskListService)

	r := gin.New()
	requireAuth := middleware.RequireAuth(authService)
	taskInList := middleware.TaskInList(taskService)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/login-form", authHandler.LoginForm)
		authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		authRoutes.POST("/change-password", requireAuth, authHandler.ChangePassword)
	}

	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.DELETE("/:id", userHandler.Delete)
	}

	lists := r.Group("/task-lists")
	lists.Use(requireAuth)
	{
		lists.POST("", taskListHandler.Create)
		lists.GET("", taskListHandler.List)
		lists.GET("/:id", taskListHandler.Get)
		lists.PUT("/:id", taskListHandler.Update)
		lists.DELETE("/:id", taskListHandler.Delete)

		lists.POST("/:id/tasks", taskHandler.CreateInList)
		lists.GET("/:id/tasks", taskHandler.ListInList)
		lists.GET("/:id/tasks/:task_id", taskInList, taskHandler.GetInList)
		lists.PUT("/:id/tasks/:task_id", taskInList, taskHandler.UpdateInList)
		lists.PATCH("/:id/tasks/:task_id/status", taskInList, taskHandler.UpdateStatusInList)
		lists.PATCH("/:id/tasks/:task_id/assign", taskInList, taskHandler.AssignInList)
		lists.DELETE("/:id/tasks/:task_id", taskInList, taskHandler.DeleteInList)
	}

	tasks := r.Group("/tasks")
	tasks.Use(requireAuth)
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("/list/:list_id", taskHandler.ListByList)
		tasks.GET("/user/:user_id", taskHandler.ListByUser)
		tasks.GET("/:id", taskHandler.Get)
		tasks.PUT("/:id", taskHandler.Update)
		tasks.PATCH("/:id/status", taskHandler.UpdateStatus)
		tasks.PATCH("/:id/assign", taskHandler.Assign)
		tasks.DELETE("/:id", taskHandler.Delete)
	}

	return &apiTestEnv{
		router:      r,
		users:       userService,
		taskLists:   taskListService,
		tasks:       taskService,
		authService: authService,
	}
}

func (e *apiTestEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account through the API and returns its token.
func (e *apiTestEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/auth/register", "", gin.H{
		"username":  username,
		"email":     username + "@example.com",
		"full_name": "Test User",
		"password":  "supersecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = e.request(t, http.MethodPost, "/auth/login", "", gin.H{
		"username": username,
		"password": "supersecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
