package repositories

import (
	"fmt"

	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// ResourceRepository resolves and manipulates migratable resources
// (applications, services, databases) behind one dispatch table.
type ResourceRepository struct{}

// NewResourceRepository creates a new resource repository instance
func NewResourceRepository() *ResourceRepository {
	return &ResourceRepository{}
}

// Find resolves a resource by kind and ID, scoped to a team
func (r *ResourceRepository) Find(kind models.ResourceKind, id string, teamID string) (models.Resource, error) {
	switch kind {
	case models.ResourceKindApplication:
		var app models.Application
		result := database.DB.First(&app, "id = ? AND team_id = ?", id, teamID)
		return app, result.Error
	case models.ResourceKindService:
		var svc models.Service
		result := database.DB.First(&svc, "id = ? AND team_id = ?", id, teamID)
		return svc, result.Error
	case models.ResourceKindDatabase:
		var db models.DatabaseInstance
		result := database.DB.First(&db, "id = ? AND team_id = ?", id, teamID)
		return db, result.Error
	default:
		return nil, fmt.Errorf("unknown resource kind %q", kind)
	}
}

// FindDatabase resolves a database instance, scoped to a team
func (r *ResourceRepository) FindDatabase(id string, teamID string) (models.DatabaseInstance, error) {
	var db models.DatabaseInstance
	result := database.DB.First(&db, "id = ? AND team_id = ?", id, teamID)
	return db, result.Error
}

// CloneInto copies a resource row into the target environment. Env vars are
// carried over only when copyEnvVars is set. The clone starts inactive.
func (r *ResourceRepository) CloneInto(source models.Resource, targetEnvironmentID, targetServerID string, copyEnvVars bool) (models.Resource, error) {
	switch src := source.(type) {
	case models.Application:
		clone := src
		clone.ID = ""
		clone.EnvironmentID = targetEnvironmentID
		clone.ServerID = targetServerID
		clone.Status = "inactive"
		clone.EnvVars = models.EnvVars{}
		if copyEnvVars {
			clone.EnvVars = src.EnvVars.Clone()
		}
		result := database.DB.Create(&clone)
		return clone, result.Error
	case models.Service:
		clone := src
		clone.ID = ""
		clone.EnvironmentID = targetEnvironmentID
		clone.ServerID = targetServerID
		clone.Status = "inactive"
		clone.EnvVars = models.EnvVars{}
		if copyEnvVars {
			clone.EnvVars = src.EnvVars.Clone()
		}
		result := database.DB.Create(&clone)
		return clone, result.Error
	case models.DatabaseInstance:
		clone := src
		clone.ID = ""
		clone.EnvironmentID = targetEnvironmentID
		clone.ServerID = targetServerID
		clone.Status = "inactive"
		clone.PublicPort = 0
		clone.EnvVars = models.EnvVars{}
		if copyEnvVars {
			clone.EnvVars = src.EnvVars.Clone()
		}
		result := database.DB.Create(&clone)
		return clone, result.Error
	default:
		return nil, fmt.Errorf("unknown resource type %T", source)
	}
}

// FindByNameInEnvironment looks for a resource of the given kind and name in
// an environment, used by the update_existing option
func (r *ResourceRepository) FindByNameInEnvironment(kind models.ResourceKind, name, environmentID string) (models.Resource, bool, error) {
	switch kind {
	case models.ResourceKindApplication:
		var apps []models.Application
		result := database.DB.Where("name = ? AND environment_id = ?", name, environmentID).Limit(1).Find(&apps)
		if result.Error != nil || len(apps) == 0 {
			return nil, false, result.Error
		}
		return apps[0], true, nil
	case models.ResourceKindService:
		var svcs []models.Service
		result := database.DB.Where("name = ? AND environment_id = ?", name, environmentID).Limit(1).Find(&svcs)
		if result.Error != nil || len(svcs) == 0 {
			return nil, false, result.Error
		}
		return svcs[0], true, nil
	case models.ResourceKindDatabase:
		var dbs []models.DatabaseInstance
		result := database.DB.Where("name = ? AND environment_id = ?", name, environmentID).Limit(1).Find(&dbs)
		if result.Error != nil || len(dbs) == 0 {
			return nil, false, result.Error
		}
		return dbs[0], true, nil
	default:
		return nil, false, fmt.Errorf("unknown resource kind %q", kind)
	}
}

// SetStatus updates the lifecycle status column of a resource
func (r *ResourceRepository) SetStatus(kind models.ResourceKind, id string, status string) error {
	switch kind {
	case models.ResourceKindApplication:
		return database.DB.Model(&models.Application{}).Where("id = ?", id).Update("status", status).Error
	case models.ResourceKindService:
		return database.DB.Model(&models.Service{}).Where("id = ?", id).Update("status", status).Error
	case models.ResourceKindDatabase:
		return database.DB.Model(&models.DatabaseInstance{}).Where("id = ?", id).Update("status", status).Error
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
}

// SetEnvVars replaces the variable map of a resource
func (r *ResourceRepository) SetEnvVars(kind models.ResourceKind, id string, vars models.EnvVars) error {
	switch kind {
	case models.ResourceKindApplication:
		return database.DB.Model(&models.Application{}).Where("id = ?", id).Update("env_vars", vars).Error
	case models.ResourceKindService:
		return database.DB.Model(&models.Service{}).Where("id = ?", id).Update("env_vars", vars).Error
	case models.ResourceKindDatabase:
		return database.DB.Model(&models.DatabaseInstance{}).Where("id = ?", id).Update("env_vars", vars).Error
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
}

// ClearEnvVars empties the variable map of a resource, used by rollback
func (r *ResourceRepository) ClearEnvVars(kind models.ResourceKind, id string) error {
	switch kind {
	case models.ResourceKindApplication:
		return database.DB.Model(&models.Application{}).Where("id = ?", id).Update("env_vars", models.EnvVars{}).Error
	case models.ResourceKindService:
		return database.DB.Model(&models.Service{}).Where("id = ?", id).Update("env_vars", models.EnvVars{}).Error
	case models.ResourceKindDatabase:
		return database.DB.Model(&models.DatabaseInstance{}).Where("id = ?", id).Update("env_vars", models.EnvVars{}).Error
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
}

// Delete soft deletes a resource row, used by rollback
func (r *ResourceRepository) Delete(kind models.ResourceKind, id string) error {
	switch kind {
	case models.ResourceKindApplication:
		return database.DB.Delete(&models.Application{}, "id = ?", id).Error
	case models.ResourceKindService:
		return database.DB.Delete(&models.Service{}, "id = ?", id).Error
	case models.ResourceKindDatabase:
		return database.DB.Delete(&models.DatabaseInstance{}, "id = ?", id).Error
	default:
		return fmt.Errorf("unknown resource kind %q", kind)
	}
}
