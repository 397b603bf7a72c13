package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/minaharu/timebank-api/internal/config"
	"github.com/minaharu/timebank-api/internal/constants"
	"github.com/minaharu/timebank-api/internal/database"
	"github.com/minaharu/timebank-api/internal/handlers"
	"github.com/minaharu/timebank-api/internal/identity"
	"github.com/minaharu/timebank-api/internal/middleware"
	"github.com/minaharu/timebank-api/internal/repository"
	"github.com/minaharu/timebank-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
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
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Repositories and services
	db := database.GetDB()
	taskRepo := repository.NewTaskRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	taskService := services.NewTaskService(taskRepo)
	ledgerService := services.NewLedgerService(db, taskRepo, creditRepo, cfg.TakeTaskAtomic)
	verifier := identity.NewHTTPVerifier(cfg.IdentityVerifyURL)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(verifier, ledgerService)
	taskHandler := handlers.NewTaskHandler(taskService, ledgerService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Time Bank API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Session routes
		auth := api.Group("/auth")
		{
			auth.POST("/session", authHandler.CreateSession)
			auth.DELETE("/session", authHandler.DeleteSession)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/take", taskHandler.TakeTask)
			tasks.POST("/:id/complete", taskHandler.CompleteTask)
		}
	}

	// Start server
	log.Println("Server starting on :8080")
	if err := r.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
