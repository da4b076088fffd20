package main

import (
	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/synergysphere/project-collab-api/internal/config"
	"github.com/synergysphere/project-collab-api/internal/constants"
	"github.com/synergysphere/project-collab-api/internal/database"
	"github.com/synergysphere/project-collab-api/internal/handlers"
	"github.com/synergysphere/project-collab-api/internal/logger"
	"github.com/synergysphere/project-collab-api/internal/middleware"
	"github.com/synergysphere/project-collab-api/internal/repository"
	"github.com/synergysphere/project-collab-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Output: cfg.LogOutput,
		File:   cfg.LogFile,
	})
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		logger.Fatalf("Failed to create indexes: %v", err)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		logger.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	eventRepo := repository.NewEventRepository(db)
	threadRepo := repository.NewThreadRepository(db)

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	}

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(projectRepo, userRepo)
	taskService := services.NewTaskService(taskRepo, eventRepo, projectRepo, aiService)
	threadService := services.NewThreadService(threadRepo)
	analyticsService := services.NewAnalyticsService(projectRepo, eventRepo)
	demoService := services.NewDemoService(projectService, taskService, threadService, projectRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	threadHandler := handlers.NewThreadHandler(threadService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	demoHandler := handlers.NewDemoHandler(authService, demoService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Project Collaboration API is running",
		})
	})

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", middleware.RequireProjectAccess(), projectHandler.GetProject)
			projects.DELETE("/:id", middleware.RequireProjectAccess(), middleware.RequireProjectOwner(), projectHandler.DeleteProject)
			projects.POST("/:id/join", projectHandler.JoinProject)
			projects.GET("/:id/members", middleware.RequireProjectAccess(), projectHandler.ListMembers)
			projects.POST("/:id/members", middleware.RequireProjectAccess(), projectHandler.AddMember)

			projects.GET("/:id/tasks", middleware.RequireProjectAccess(), taskHandler.ListTasks)
			projects.POST("/:id/tasks", middleware.RequireProjectAccess(), taskHandler.CreateTask)

			projects.GET("/:id/threads/general", middleware.RequireProjectAccess(), threadHandler.GetGeneralThread)
			projects.GET("/:id/threads/:thread_id/messages", middleware.RequireProjectAccess(), threadHandler.ListMessages)
			projects.POST("/:id/threads/:thread_id/messages", middleware.RequireProjectAccess(), threadHandler.PostMessage)

			projects.GET("/:id/leaderboard", middleware.RequireProjectAccess(), analyticsHandler.GetLeaderboard)
			projects.GET("/:id/summary", middleware.RequireProjectAccess(), analyticsHandler.GetSummary)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("/suggest", taskHandler.SuggestTasks)
			tasks.GET("/:id", middleware.RequireTaskAccess(), taskHandler.GetTask)
			tasks.PATCH("/:id", middleware.RequireTaskAccess(), taskHandler.UpdateTask)
			tasks.DELETE("/:id", middleware.RequireTaskAccess(), taskHandler.DeleteTask)
			tasks.GET("/:id/comments", middleware.RequireTaskAccess(), taskHandler.ListComments)
			tasks.POST("/:id/comments", middleware.RequireTaskAccess(), taskHandler.AddComment)
			tasks.GET("/:id/events", middleware.RequireTaskAccess(), taskHandler.ListEvents)
		}

		// Demo bootstrap (protected)
		api.POST("/demo/bootstrap", middleware.RequireAuth(), demoHandler.Bootstrap)
	}

	// Start server
	logger.Infof("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}
