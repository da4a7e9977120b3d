package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// ServerController handles server API endpoints
type ServerController struct {
	serverRepo *repositories.ServerRepository
}

// NewServerController creates a new server controller
func NewServerController() *ServerController {
	return &ServerController{serverRepo: repositories.NewServerRepository()}
}

// RegisterRoutes registers server routes
func (c *ServerController) RegisterRoutes(router *gin.RouterGroup) {
	servers := router.Group("/servers")
	{
		servers.GET("", c.ListServers)
	}
}

// ListServers lists the team's servers, used to pick a migration target host
func (c *ServerController) ListServers(ctx *gin.Context) {
	teamID, _ := teamScope(ctx)

	servers, err := c.serverRepo.ListByTeam(teamID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"servers": servers},
	})
}
