package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/dto"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// EnvironmentController handles environment API endpoints
type EnvironmentController struct {
	environmentService *services.EnvironmentService
}

// NewEnvironmentController creates a new environment controller
func NewEnvironmentController(environmentService *services.EnvironmentService) *EnvironmentController {
	return &EnvironmentController{environmentService: environmentService}
}

// RegisterRoutes registers environment routes
func (c *EnvironmentController) RegisterRoutes(router *gin.RouterGroup) {
	environments := router.Group("/environments")
	{
		environments.GET("", c.ListEnvironments)
		environments.GET("/:id", c.GetEnvironment)
		environments.POST("", c.CreateEnvironment)
		environments.PUT("/:id", c.UpdateEnvironment)
		environments.DELETE("/:id", c.DeleteEnvironment)
	}
}

// ListEnvironments lists the environments of a project
func (c *EnvironmentController) ListEnvironments(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	projectID := ctx.Query("projectId")
	if projectID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "projectId query parameter is required"})
		return
	}

	environments, err := c.environmentService.ListEnvironments(projectID, teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.EnvironmentResponse, 0, len(environments))
	for _, env := range environments {
		responses = append(responses, dto.NewEnvironmentResponse(env))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.EnvironmentListResponse{Environments: responses},
	})
}

// GetEnvironment retrieves a single environment
func (c *EnvironmentController) GetEnvironment(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	env, err := c.environmentService.GetEnvironmentDetail(ctx.Param("id"), teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewEnvironmentResponse(env),
	})
}

// CreateEnvironment creates a new environment
func (c *EnvironmentController) CreateEnvironment(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	var req dto.EnvironmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	env := models.Environment{
		Name:        req.Name,
		Description: req.Description,
		Type:        models.EnvironmentType(req.Type),
		ProjectID:   req.ProjectID,
	}

	created, err := c.environmentService.CreateEnvironment(env, teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   dto.NewEnvironmentResponse(created),
	})
}

// UpdateEnvironment updates an existing environment
func (c *EnvironmentController) UpdateEnvironment(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	var req dto.EnvironmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	env := models.Environment{
		ID:          ctx.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Type:        models.EnvironmentType(req.Type),
	}

	updated, err := c.environmentService.UpdateEnvironment(env, teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewEnvironmentResponse(updated),
	})
}

// DeleteEnvironment removes an environment that has no resources
func (c *EnvironmentController) DeleteEnvironment(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	if err := c.environmentService.DeleteEnvironment(ctx.Param("id"), teamID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Environment deleted",
	})
}
