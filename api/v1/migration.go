package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/dto"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// MigrationController handles environment migration API endpoints
type MigrationController struct {
	migrationService *services.MigrationService
	rollbackService  *services.RollbackService
	targetService    *services.MigrationTargetService
}

// NewMigrationController creates a new migration controller
func NewMigrationController(migrationService *services.MigrationService, rollbackService *services.RollbackService, targetService *services.MigrationTargetService) *MigrationController {
	return &MigrationController{
		migrationService: migrationService,
		rollbackService:  rollbackService,
		targetService:    targetService,
	}
}

// RegisterRoutes registers migration routes
func (c *MigrationController) RegisterRoutes(router *gin.RouterGroup) {
	migrations := router.Group("/migrations")
	{
		migrations.GET("", c.ListMigrations)
		migrations.GET("/pending", c.ListPending)
		migrations.POST("/check", c.CheckMigration)
		migrations.POST("", c.CreateMigration)
		migrations.GET("/targets/:type/:id", c.ListTargets)
		migrations.GET("/:uuid", c.GetMigration)
		migrations.POST("/:uuid/approve", c.ApproveMigration)
		migrations.POST("/:uuid/reject", c.RejectMigration)
		migrations.POST("/:uuid/rollback", c.RollbackMigration)
	}
}

func teamScope(ctx *gin.Context) (teamID string, userID string) {
	teamValue, _ := ctx.Get("teamId")
	userValue, _ := ctx.Get("userId")
	teamID, _ = teamValue.(string)
	userID, _ = userValue.(string)
	return teamID, userID
}

// ListMigrations retrieves the team's migration requests, filterable by status
func (c *MigrationController) ListMigrations(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	requests, err := c.migrationService.List(teamID, ctx.Query("status"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.MigrationResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewMigrationResponse(req))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"migrations": responses},
	})
}

// ListPending retrieves requests awaiting this user's approval
func (c *MigrationController) ListPending(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	requests, err := c.migrationService.PendingForApprover(teamID, userID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.MigrationResponse, 0, len(requests))
	for _, req := range requests {
		responses = append(responses, dto.NewMigrationResponse(req))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"migrations": responses},
	})
}

// CheckMigration is the dry-run policy evaluation
func (c *MigrationController) CheckMigration(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	var req dto.CheckMigrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	decision, err := c.migrationService.Check(teamID, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   decision,
	})
}

// CreateMigration creates a new migration request
func (c *MigrationController) CreateMigration(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	var req dto.CreateMigrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	request, err := c.migrationService.Create(teamID, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// GetMigration returns one request with its transition history
func (c *MigrationController) GetMigration(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	request, err := c.migrationService.Get(teamID, ctx.Param("uuid"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// ApproveMigration approves a pending request and queues execution
func (c *MigrationController) ApproveMigration(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	var req dto.ApproveMigrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		respondBindingError(ctx, err)
		return
	}

	request, err := c.migrationService.Approve(teamID, userID, ctx.Param("uuid"), req.Comment)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// RejectMigration rejects a pending request; the reason is mandatory
func (c *MigrationController) RejectMigration(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	var req dto.RejectMigrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	request, err := c.migrationService.Reject(teamID, userID, ctx.Param("uuid"), req.Reason)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// RollbackMigration reverses a completed migration's target-side effects
func (c *MigrationController) RollbackMigration(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	request, err := c.rollbackService.Rollback(ctx.Request.Context(), teamID, userID, ctx.Param("uuid"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// ListTargets returns the environments a resource can migrate to
func (c *MigrationController) ListTargets(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	kind := ctx.Param("type")
	if !models.ValidResourceKind(kind) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Unknown resource type"})
		return
	}

	targets, err := c.targetService.AvailableTargets(teamID, models.ResourceKind(kind), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	responses := make([]dto.EnvironmentResponse, 0, len(targets))
	for _, env := range targets {
		responses = append(responses, dto.NewEnvironmentResponse(env))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"environments": responses},
	})
}
