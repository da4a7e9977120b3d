package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/dto"
	"github.com/kpizzy812/saturn-platform-sub000/services"
)

// TransferController handles database transfer API endpoints
type TransferController struct {
	migrationService *services.MigrationService
}

// NewTransferController creates a new transfer controller
func NewTransferController(migrationService *services.MigrationService) *TransferController {
	return &TransferController{migrationService: migrationService}
}

// RegisterRoutes registers transfer routes
func (c *TransferController) RegisterRoutes(router *gin.RouterGroup) {
	transfers := router.Group("/transfers")
	{
		transfers.POST("", c.CreateTransfer)
		transfers.POST("/:uuid/cancel", c.CancelTransfer)
	}
}

// CreateTransfer creates a database transfer request
func (c *TransferController) CreateTransfer(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	var req dto.CreateTransferRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		respondBindingError(ctx, err)
		return
	}

	request, err := c.migrationService.CreateTransfer(teamID, userID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}

// CancelTransfer cancels a request that has not finished executing.
// Works for migrations and transfers alike since they share one table.
func (c *TransferController) CancelTransfer(ctx *gin.Context) {
	teamID, userID := teamScope(ctx)

	request, err := c.migrationService.Cancel(teamID, userID, ctx.Param("uuid"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   dto.NewMigrationDetailResponse(request),
	})
}
