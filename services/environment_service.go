package services

import (
	"fmt"

	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// EnvironmentService handles business logic for environments
type EnvironmentService struct {
	environmentRepo *repositories.EnvironmentRepository
	projectRepo     *repositories.ProjectRepository
}

// NewEnvironmentService creates a new environment service instance
func NewEnvironmentService() *EnvironmentService {
	return &EnvironmentService{
		environmentRepo: repositories.NewEnvironmentRepository(),
		projectRepo:     repositories.NewProjectRepository(),
	}
}

// ListEnvironments retrieves all environments for a project in the team
func (s *EnvironmentService) ListEnvironments(projectID string, teamID string) ([]models.Environment, error) {
	if _, err := s.projectRepo.FindByID(projectID, teamID); err != nil {
		return nil, asNotFound(err)
	}
	return s.environmentRepo.FindByProjectID(projectID)
}

// GetEnvironmentDetail retrieves a specific environment
func (s *EnvironmentService) GetEnvironmentDetail(environmentID string, teamID string) (models.Environment, error) {
	env, err := s.environmentRepo.FindByID(environmentID, teamID)
	if err != nil {
		return env, asNotFound(err)
	}
	return env, nil
}

// CreateEnvironment creates a new environment for a project
func (s *EnvironmentService) CreateEnvironment(env models.Environment, teamID string) (models.Environment, error) {
	if _, err := s.projectRepo.FindByID(env.ProjectID, teamID); err != nil {
		return models.Environment{}, asNotFound(err)
	}

	if env.Type != "" && !models.ValidEnvironmentType(string(env.Type)) {
		return models.Environment{}, fmt.Errorf("unknown environment type %q: %w", env.Type, ErrValidation)
	}

	// Validate environment name uniqueness within project
	exists, err := s.environmentRepo.ExistsByNameAndProject(env.Name, env.ProjectID)
	if err != nil {
		return env, err
	}
	if exists {
		return models.Environment{}, fmt.Errorf("environment with name %q already exists in this project: %w", env.Name, ErrValidation)
	}

	env.TeamID = teamID
	return s.environmentRepo.Create(env)
}

// UpdateEnvironment updates an existing environment
func (s *EnvironmentService) UpdateEnvironment(env models.Environment, teamID string) (models.Environment, error) {
	currentEnv, err := s.environmentRepo.FindByID(env.ID, teamID)
	if err != nil {
		return env, asNotFound(err)
	}

	if env.Type != "" && !models.ValidEnvironmentType(string(env.Type)) {
		return models.Environment{}, fmt.Errorf("unknown environment type %q: %w", env.Type, ErrValidation)
	}

	// If name is changing, check uniqueness
	if env.Name != currentEnv.Name {
		exists, err := s.environmentRepo.ExistsByNameAndProject(env.Name, currentEnv.ProjectID)
		if err != nil {
			return env, err
		}
		if exists {
			return models.Environment{}, fmt.Errorf("environment with name %q already exists in this project: %w", env.Name, ErrValidation)
		}
	}

	// Update only allowed fields
	currentEnv.Name = env.Name
	currentEnv.Description = env.Description
	if env.Type != "" {
		currentEnv.Type = env.Type
	}

	if err := s.environmentRepo.Update(currentEnv); err != nil {
		return currentEnv, err
	}
	return currentEnv, nil
}

// DeleteEnvironment removes an environment if it has no attached resources
func (s *EnvironmentService) DeleteEnvironment(environmentID string, teamID string) error {
	env, err := s.environmentRepo.FindByID(environmentID, teamID)
	if err != nil {
		return asNotFound(err)
	}

	count, err := s.environmentRepo.CountResourcesInEnvironment(env.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cannot delete environment that has resources: %w", ErrConflict)
	}

	return s.environmentRepo.Delete(environmentID)
}
