package repositories

import (
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// ServerRepository handles database operations for servers
type ServerRepository struct{}

// NewServerRepository creates a new server repository instance
func NewServerRepository() *ServerRepository {
	return &ServerRepository{}
}

// FindByID retrieves a server by its ID, scoped to a team
func (r *ServerRepository) FindByID(id string, teamID string) (models.Server, error) {
	var server models.Server
	result := database.DB.First(&server, "id = ? AND team_id = ?", id, teamID)
	return server, result.Error
}

// ListByTeam retrieves all servers belonging to a team
func (r *ServerRepository) ListByTeam(teamID string) ([]models.Server, error) {
	var servers []models.Server
	result := database.DB.Where("team_id = ?", teamID).Order("created_at ASC").Find(&servers)
	return servers, result.Error
}

// Create inserts a new server
func (r *ServerRepository) Create(server models.Server) (models.Server, error) {
	result := database.DB.Create(&server)
	return server, result.Error
}
