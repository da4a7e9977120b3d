package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// MigrationRequestRepository handles database operations for migration requests
type MigrationRequestRepository struct{}

// NewMigrationRequestRepository creates a new migration request repository instance
func NewMigrationRequestRepository() *MigrationRequestRepository {
	return &MigrationRequestRepository{}
}

// Create inserts a new migration request
func (r *MigrationRequestRepository) Create(request models.MigrationRequest) (models.MigrationRequest, error) {
	result := database.DB.Create(&request)
	return request, result.Error
}

// FindByUUID retrieves a request by its public UUID, scoped to a team
func (r *MigrationRequestRepository) FindByUUID(uuid string, teamID string) (models.MigrationRequest, error) {
	var request models.MigrationRequest
	result := database.DB.First(&request, "uuid = ? AND team_id = ?", uuid, teamID)
	return request, result.Error
}

// FindByID retrieves a request by primary key. Used by the background
// executor, which already holds a trusted ID.
func (r *MigrationRequestRepository) FindByID(id string) (models.MigrationRequest, error) {
	var request models.MigrationRequest
	result := database.DB.First(&request, "id = ?", id)
	return request, result.Error
}

// ListByTeam retrieves requests for a team, optionally filtered by status
func (r *MigrationRequestRepository) ListByTeam(teamID string, status models.MigrationStatus) ([]models.MigrationRequest, error) {
	var requests []models.MigrationRequest
	db := database.DB.Where("team_id = ?", teamID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	result := db.Order("created_at DESC").Find(&requests)
	return requests, result.Error
}

// ListPendingApproval retrieves requests awaiting approval for a team
func (r *MigrationRequestRepository) ListPendingApproval(teamID string) ([]models.MigrationRequest, error) {
	var requests []models.MigrationRequest
	result := database.DB.
		Where("team_id = ? AND status = ?", teamID, models.MigrationStatusPendingApproval).
		Order("created_at ASC").
		Find(&requests)
	return requests, result.Error
}

// ListByStatus retrieves all requests in the given status across teams.
// Used by the executor's startup scan.
func (r *MigrationRequestRepository) ListByStatus(status models.MigrationStatus) ([]models.MigrationRequest, error) {
	var requests []models.MigrationRequest
	result := database.DB.
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&requests)
	return requests, result.Error
}

// FindActive returns the active (non-terminal) request for a resource and
// target environment, if one exists
func (r *MigrationRequestRepository) FindActive(kind models.ResourceKind, resourceID, targetEnvironmentID string) (models.MigrationRequest, bool, error) {
	var request models.MigrationRequest
	result := database.DB.
		Where("resource_kind = ? AND resource_id = ? AND target_environment_id = ?", kind, resourceID, targetEnvironmentID).
		Where("status IN ?", models.ActiveStatuses()).
		First(&request)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return request, false, nil
		}
		return request, false, result.Error
	}
	return request, true, nil
}

// ActiveTargetEnvironmentIDs returns target environment IDs that already
// have an active request from the given resource
func (r *MigrationRequestRepository) ActiveTargetEnvironmentIDs(kind models.ResourceKind, resourceID string) ([]string, error) {
	var ids []string
	result := database.DB.Model(&models.MigrationRequest{}).
		Where("resource_kind = ? AND resource_id = ?", kind, resourceID).
		Where("status IN ?", models.ActiveStatuses()).
		Pluck("target_environment_id", &ids)
	return ids, result.Error
}

// TransitionStatus moves a request from one status to another with
// compare-and-set semantics: the update applies only while the persisted
// status still equals from. Returns false when another writer won the race.
func (r *MigrationRequestRepository) TransitionStatus(id string, from, to models.MigrationStatus, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := database.DB.Model(&models.MigrationRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Update persists non-status fields of a request
func (r *MigrationRequestRepository) Update(request models.MigrationRequest) error {
	result := database.DB.Save(&request)
	return result.Error
}
