package services

import (
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
}

// NewProjectService creates a new project service instance
func NewProjectService() *ProjectService {
	return &ProjectService{
		projectRepo: repositories.NewProjectRepository(),
	}
}

// ListProjects retrieves all projects for a team
func (s *ProjectService) ListProjects(teamID string) ([]models.Project, error) {
	return s.projectRepo.ListByTeam(teamID)
}

// GetProjectDetail retrieves a project with its environments
func (s *ProjectService) GetProjectDetail(projectID string, teamID string) (models.Project, error) {
	project, err := s.projectRepo.WithEnvironments(projectID, teamID)
	if err != nil {
		return project, asNotFound(err)
	}
	return project, nil
}

// CreateProject creates a new project owned by the team
func (s *ProjectService) CreateProject(project models.Project, teamID string) (models.Project, error) {
	project.TeamID = teamID
	return s.projectRepo.Create(project)
}

// UpdateProject updates name and description of an existing project
func (s *ProjectService) UpdateProject(project models.Project, teamID string) (models.Project, error) {
	current, err := s.projectRepo.FindByID(project.ID, teamID)
	if err != nil {
		return project, asNotFound(err)
	}

	current.Name = project.Name
	current.Description = project.Description
	if err := s.projectRepo.Update(current); err != nil {
		return current, err
	}
	return current, nil
}

// DeleteProject removes a project and its environments
func (s *ProjectService) DeleteProject(projectID string, teamID string) error {
	if _, err := s.projectRepo.FindByID(projectID, teamID); err != nil {
		return asNotFound(err)
	}
	return s.projectRepo.Delete(projectID)
}
