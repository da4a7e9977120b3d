package repositories

import (
	"gorm.io/gorm"

	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct{}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{}
}

// FindByID retrieves a project by its ID, scoped to a team
func (r *ProjectRepository) FindByID(id string, teamID string) (models.Project, error) {
	var project models.Project
	result := database.DB.First(&project, "id = ? AND team_id = ?", id, teamID)
	return project, result.Error
}

// ListByTeam retrieves all projects belonging to a team
func (r *ProjectRepository) ListByTeam(teamID string) ([]models.Project, error) {
	var projects []models.Project
	result := database.DB.Where("team_id = ?", teamID).Order("created_at DESC").Find(&projects)
	return projects, result.Error
}

// Create inserts a new project into the database
func (r *ProjectRepository) Create(project models.Project) (models.Project, error) {
	result := database.DB.Create(&project)
	return project, result.Error
}

// Update modifies an existing project
func (r *ProjectRepository) Update(project models.Project) error {
	result := database.DB.Save(&project)
	return result.Error
}

// Delete removes a project and its environments (soft delete)
func (r *ProjectRepository) Delete(id string) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Environment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Project{}, "id = ?", id)
		return result.Error
	})
}

// WithEnvironments loads a project with its environments
func (r *ProjectRepository) WithEnvironments(id string, teamID string) (models.Project, error) {
	var project models.Project
	result := database.DB.Preload("Environments").First(&project, "id = ? AND team_id = ?", id, teamID)
	return project, result.Error
}
