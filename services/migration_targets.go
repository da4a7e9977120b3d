package services

import (
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// MigrationTargetService computes the valid target environments for a
// resource: same project, not the source itself, and not already targeted
// by an active request from the same resource.
type MigrationTargetService struct {
	environments environmentStore
	migrations   migrationStore
	resources    resourceStore
}

// NewMigrationTargetService creates a new migration target service instance
func NewMigrationTargetService() *MigrationTargetService {
	return &MigrationTargetService{
		environments: repositories.NewEnvironmentRepository(),
		migrations:   repositories.NewMigrationRequestRepository(),
		resources:    repositories.NewResourceRepository(),
	}
}

// AvailableTargets returns the environments the resource can migrate to,
// in environment creation order
func (s *MigrationTargetService) AvailableTargets(teamID string, kind models.ResourceKind, resourceID string) ([]models.Environment, error) {
	resource, err := s.resources.Find(kind, resourceID, teamID)
	if err != nil {
		return nil, asNotFound(err)
	}

	source, err := s.environments.FindByID(resource.ResourceEnvironmentID(), teamID)
	if err != nil {
		return nil, asNotFound(err)
	}

	candidates, err := s.environments.FindByProjectID(source.ProjectID)
	if err != nil {
		return nil, err
	}

	busyIDs, err := s.migrations.ActiveTargetEnvironmentIDs(kind, resourceID)
	if err != nil {
		return nil, err
	}
	busy := make(map[string]bool, len(busyIDs))
	for _, id := range busyIDs {
		busy[id] = true
	}

	targets := make([]models.Environment, 0, len(candidates))
	for _, env := range candidates {
		if env.ID == source.ID || busy[env.ID] {
			continue
		}
		targets = append(targets, env)
	}
	return targets, nil
}
