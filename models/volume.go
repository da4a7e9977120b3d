package models

import (
	"time"

	"gorm.io/gorm"
)

// Volume represents persistent storage attached to a resource
type Volume struct {
	ID           string       `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name         string       `json:"name" gorm:"not null"`
	TeamID       string       `json:"teamId" gorm:"type:uuid;not null;index"`
	ResourceKind ResourceKind `json:"resourceKind" gorm:"type:varchar(20);not null;index:idx_volume_resource"`
	ResourceID   string       `json:"resourceId" gorm:"type:uuid;not null;index:idx_volume_resource"`
	MountPath    string       `json:"mountPath" gorm:"not null"`
	HostPath     string       `json:"hostPath" gorm:"default:null"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name for Volume model
func (Volume) TableName() string {
	return "volumes"
}
