package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/dto"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// ProjectController handles project API endpoints
type ProjectController struct {
	projectService *services.ProjectService
}

// NewProjectController creates a new project controller
func NewProjectController(projectService *services.ProjectService) *ProjectController {
	return &ProjectController{projectService: projectService}
}

// RegisterRoutes registers project routes
func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	projects := router.Group("/projects")
	{
		projects.GET("", c.ListProjects)
		projects.GET("/:id", c.GetProject)
		projects.POST("", c.CreateProject)
		projects.PUT("/:id", c.UpdateProject)
		projects.DELETE("/:id", c.DeleteProject)
	}
}

// ListProjects lists the team's projects
func (c *ProjectController) ListProjects(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	projects, err := c.projectService.ListProjects(teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"projects": projects},
	})
}

// GetProject retrieves a project with its environments
func (c *ProjectController) GetProject(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	project, err := c.projectService.GetProjectDetail(ctx.Param("id"), teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   project,
	})
}

// CreateProject creates a new project
func (c *ProjectController) CreateProject(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	var req dto.CreateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
	}

	created, err := c.projectService.CreateProject(project, teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   created,
	})
}

// UpdateProject updates name and description of a project
func (c *ProjectController) UpdateProject(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	var req dto.UpdateProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	project := models.Project{
		ID:          ctx.Param("id"),
		Name:        req.Name,
		Description: req.Description,
	}

	updated, err := c.projectService.UpdateProject(project, teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   updated,
	})
}

// DeleteProject removes a project and its environments
func (c *ProjectController) DeleteProject(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	if err := c.projectService.DeleteProject(ctx.Param("id"), teamID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Project deleted",
	})
}
