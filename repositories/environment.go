package repositories

import (
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// EnvironmentRepository handles database operations for environments
type EnvironmentRepository struct{}

// NewEnvironmentRepository creates a new environment repository instance
func NewEnvironmentRepository() *EnvironmentRepository {
	return &EnvironmentRepository{}
}

// FindByID retrieves an environment by its ID, scoped to a team
func (r *EnvironmentRepository) FindByID(id string, teamID string) (models.Environment, error) {
	var environment models.Environment
	result := database.DB.First(&environment, "id = ? AND team_id = ?", id, teamID)
	return environment, result.Error
}

// FindByProjectID retrieves all environments for a project in creation order
func (r *EnvironmentRepository) FindByProjectID(projectID string) ([]models.Environment, error) {
	var environments []models.Environment
	result := database.DB.Where("project_id = ?", projectID).Order("created_at ASC").Find(&environments)
	return environments, result.Error
}

// Create inserts a new environment into the database
func (r *EnvironmentRepository) Create(environment models.Environment) (models.Environment, error) {
	result := database.DB.Create(&environment)
	return environment, result.Error
}

// Update modifies an existing environment
func (r *EnvironmentRepository) Update(environment models.Environment) error {
	result := database.DB.Save(&environment)
	return result.Error
}

// ExistsByNameAndProject checks if an environment with the given name exists in a project
func (r *EnvironmentRepository) ExistsByNameAndProject(name string, projectID string) (bool, error) {
	var count int64
	result := database.DB.Model(&models.Environment{}).Where("name = ? AND project_id = ?", name, projectID).Count(&count)
	return count > 0, result.Error
}

// Delete removes an environment from the database (soft delete)
func (r *EnvironmentRepository) Delete(id string) error {
	result := database.DB.Delete(&models.Environment{}, "id = ?", id)
	return result.Error
}

// CountResourcesInEnvironment counts applications, services and databases
// attached to an environment
func (r *EnvironmentRepository) CountResourcesInEnvironment(environmentID string) (int64, error) {
	var total int64

	var count int64
	if err := database.DB.Model(&models.Application{}).Where("environment_id = ?", environmentID).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	if err := database.DB.Model(&models.Service{}).Where("environment_id = ?", environmentID).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	if err := database.DB.Model(&models.DatabaseInstance{}).Where("environment_id = ?", environmentID).Count(&count).Error; err != nil {
		return 0, err
	}
	total += count

	return total, nil
}
