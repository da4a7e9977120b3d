package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	v1 "github.com/kpizzy812/saturn-platform-sub000/api/v1"
	"github.com/kpizzy812/saturn-platform-sub000/config"
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/lib/logger"
	"github.com/kpizzy812/saturn-platform-sub000/lib/queue"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

func main() {
	config.LoadEnv()
	logger.Setup()

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database and run migrations
	database.Initialize()

	// Execution queue: approved requests run on background workers
	workers := config.GetEnvInt("MIGRATION_WORKERS", 2)
	buffer := config.GetEnvInt("MIGRATION_QUEUE_BUFFER", 64)
	executionQueue := queue.New(workers, buffer)
	executionQueue.Start(context.Background())

	executor := services.NewMigrationExecutor(executionQueue)
	if err := executor.ResumeQueued(); err != nil {
		logrus.Errorf("Resuming queued migrations: %v", err)
	}
	migrationService := services.NewMigrationService(executor)
	rollbackService := services.NewRollbackService()
	targetService := services.NewMigrationTargetService()

	// Initialize router
	router := gin.Default()

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	// Root health check endpoint
	router.GET("/", v1.HealthCheck)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	v1.RegisterRoutes(apiV1, v1.Controllers{
		Migration: v1.NewMigrationController(migrationService, rollbackService, targetService),
		Transfer:  v1.NewTransferController(migrationService),
	})

	// Get port from environment or use default
	port := config.GetEnv("PORT", "8080")

	server := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	go func() {
		logrus.Infof("🚀 Saturn API starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt, then drain in-flight work before exiting
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server shutdown: %v", err)
	}

	executionQueue.Shutdown()
	logrus.Info("Shutdown complete")
}
