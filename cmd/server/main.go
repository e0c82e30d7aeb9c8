package main

import (
	"github.com/gin-gonic/gin"

	"github.com/taskmgmt/task-management-api/internal/auth"
	"github.com/taskmgmt/task-management-api/internal/config"
	"github.com/taskmgmt/task-management-api/internal/database"
	"github.com/taskmgmt/task-management-api/internal/handlers"
	"github.com/taskmgmt/task-management-api/internal/logger"
	"github.com/taskmgmt/task-management-api/internal/middleware"
	"github.com/taskmgmt/task-management-api/internal/notifier"
	"github.com/taskmgmt/task-management-api/internal/repository"
	"github.com/taskmgmt/task-management-api/internal/services"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.GinMode)

	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Info("Database connection established")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(db); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}
	log.Info("Database migrations completed")

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskListRepo := repository.NewTaskListRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	userService := services.NewUserService(userRepo)
	authService := services.NewAuthService(userService, jwtManager)
	taskListService := services.NewTaskListService(taskListRepo, taskRepo)
	taskService := services.NewTaskService(taskRepo, taskListRepo, userRepo, notifier.NewLogNotifier(log), log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	taskListHandler := handlers.NewTaskListHandler(taskListService)
	taskHandler := handlers.NewTaskHandler(taskService, taskListService)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	requireAuth := middleware.RequireAuth(authService)

	// Auth routes
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/login-form", authHandler.LoginForm)
		authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
		authRoutes.POST("/change-password", requireAuth, authHandler.ChangePassword)
	}

	// User admin routes (protected)
	users := r.Group("/users")
	users.Use(requireAuth)
	{
		users.POST("", userHandler.Create)
		users.GET("", userHandler.List)
		users.GET("/:id", userHandler.Get)
		users.GET("/by-username/:username", userHandler.GetByUsername)
		users.GET("/by-email/:email", userHandler.GetByEmail)
		users.PUT("/:id", userHandler.Update)
		users.POST("/:id/activate", userHandler.Activate)
		users.POST("/:id/deactivate", userHandler.Deactivate)
		users.DELETE("/:id", userHandler.Delete)
	}

	// Task list routes with nested task routes (protected)
	taskInList := middleware.TaskInList(taskService)
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

	// Direct task routes (protected)
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

	log.Infof("Server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
