package repositories

import (
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// VolumeRepository handles database operations for volumes
type VolumeRepository struct{}

// NewVolumeRepository creates a new volume repository instance
func NewVolumeRepository() *VolumeRepository {
	return &VolumeRepository{}
}

// FindByResource retrieves all volumes attached to a resource
func (r *VolumeRepository) FindByResource(kind models.ResourceKind, resourceID string) ([]models.Volume, error) {
	var volumes []models.Volume
	result := database.DB.
		Where("resource_kind = ? AND resource_id = ?", kind, resourceID).
		Order("created_at ASC").
		Find(&volumes)
	return volumes, result.Error
}

// FindByID retrieves a volume by its ID
func (r *VolumeRepository) FindByID(id string) (models.Volume, error) {
	var volume models.Volume
	result := database.DB.First(&volume, "id = ?", id)
	return volume, result.Error
}

// Create inserts a new volume
func (r *VolumeRepository) Create(volume models.Volume) (models.Volume, error) {
	result := database.DB.Create(&volume)
	return volume, result.Error
}

// Delete soft deletes a volume row
func (r *VolumeRepository) Delete(id string) error {
	result := database.DB.Delete(&models.Volume{}, "id = ?", id)
	return result.Error
}
