package services

import (
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// Store interfaces the services depend on. The repositories package
// satisfies them against postgres; tests substitute in-memory fakes.

type migrationStore interface {
	Create(request models.MigrationRequest) (models.MigrationRequest, error)
	FindByUUID(uuid string, teamID string) (models.MigrationRequest, error)
	FindByID(id string) (models.MigrationRequest, error)
	ListByTeam(teamID string, status models.MigrationStatus) ([]models.MigrationRequest, error)
	ListPendingApproval(teamID string) ([]models.MigrationRequest, error)
	ListByStatus(status models.MigrationStatus) ([]models.MigrationRequest, error)
	FindActive(kind models.ResourceKind, resourceID, targetEnvironmentID string) (models.MigrationRequest, bool, error)
	ActiveTargetEnvironmentIDs(kind models.ResourceKind, resourceID string) ([]string, error)
	TransitionStatus(id string, from, to models.MigrationStatus, updates map[string]interface{}) (bool, error)
	Update(request models.MigrationRequest) error
}

type environmentStore interface {
	FindByID(id string, teamID string) (models.Environment, error)
	FindByProjectID(projectID string) ([]models.Environment, error)
}

type serverStore interface {
	FindByID(id string, teamID string) (models.Server, error)
}

type teamStore interface {
	FindByID(id string) (models.Team, error)
	FindMember(teamID string, userID string) (models.TeamMember, error)
	ListMembersWithRoleAtLeast(teamID string, role models.TeamRole) ([]models.TeamMember, error)
}

type resourceStore interface {
	Find(kind models.ResourceKind, id string, teamID string) (models.Resource, error)
	FindDatabase(id string, teamID string) (models.DatabaseInstance, error)
	CloneInto(source models.Resource, targetEnvironmentID, targetServerID string, copyEnvVars bool) (models.Resource, error)
	FindByNameInEnvironment(kind models.ResourceKind, name, environmentID string) (models.Resource, bool, error)
	SetStatus(kind models.ResourceKind, id string, status string) error
	SetEnvVars(kind models.ResourceKind, id string, vars models.EnvVars) error
	ClearEnvVars(kind models.ResourceKind, id string) error
	Delete(kind models.ResourceKind, id string) error
}

type volumeStore interface {
	FindByResource(kind models.ResourceKind, resourceID string) ([]models.Volume, error)
	FindByID(id string) (models.Volume, error)
	Create(volume models.Volume) (models.Volume, error)
	Delete(id string) error
}

type notificationStore interface {
	Create(notification models.Notification) (models.Notification, error)
}

// notifier delivers best-effort messages; implementations must never fail
// the caller
type notifier interface {
	Notify(userID, teamID string, kind models.NotificationType, message string)
}

// executionEnqueuer hands an approved request to the background queue
type executionEnqueuer interface {
	EnqueueExecution(requestID string) error
}
