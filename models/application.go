package models

import (
	"time"

	"gorm.io/gorm"
)

// Application represents a git-based deployable application
type Application struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string `json:"name" gorm:"not null"`
	TeamID        string `json:"teamId" gorm:"type:uuid;not null;index"`
	EnvironmentID string `json:"environmentId" gorm:"type:uuid;not null;index"`
	ServerID      string `json:"serverId" gorm:"type:uuid;default:null"`

	RepoURL string `json:"repoUrl" gorm:"default:null"`
	Branch  string `json:"branch" gorm:"default:main"`

	Port         int     `json:"port" gorm:"default:3000"`
	EnvVars      EnvVars `json:"envVars" gorm:"type:jsonb;default:'{}'"`
	BuildCommand string  `json:"buildCommand" gorm:"default:null"`
	StartCommand string  `json:"startCommand" gorm:"default:null"`

	Status string `json:"status" gorm:"default:inactive"` // inactive, building, running, failed

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Environment Environment `json:"environment,omitempty" gorm:"foreignKey:EnvironmentID"`
}

// TableName sets the table name for Application model
func (Application) TableName() string {
	return "applications"
}
