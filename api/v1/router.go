package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/middleware"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// Controllers bundles the controllers that carry injected services
type Controllers struct {
	Migration *MigrationController
	Transfer  *TransferController
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, controllers Controllers) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// Auth endpoints
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", Register)
		authGroup.POST("/login", Login)
		authGroup.GET("/me", middleware.AuthMiddleware(), GetCurrentUser)
	}

	// Everything below requires an authenticated team member
	authRouter := router.Group("")
	authRouter.Use(middleware.AuthMiddleware())

	NewProjectController(services.NewProjectService()).RegisterRoutes(authRouter)
	NewEnvironmentController(services.NewEnvironmentService()).RegisterRoutes(authRouter)
	NewServerController().RegisterRoutes(authRouter)

	controllers.Migration.RegisterRoutes(authRouter)
	controllers.Transfer.RegisterRoutes(authRouter)
}
