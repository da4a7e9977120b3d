package models

import (
	"time"

	"gorm.io/gorm"
)

// EnvironmentType classifies how sensitive an environment is.
// Production is the protected type: promotions into it may need approval.
type EnvironmentType string

const (
	EnvironmentTypeDevelopment EnvironmentType = "development"
	EnvironmentTypeStaging     EnvironmentType = "staging"
	EnvironmentTypeProduction  EnvironmentType = "production"
)

// IsProtected reports whether promotions into this environment type are policy-gated
func (t EnvironmentType) IsProtected() bool {
	return t == EnvironmentTypeProduction
}

// ValidEnvironmentType checks an incoming type string
func ValidEnvironmentType(t string) bool {
	switch EnvironmentType(t) {
	case EnvironmentTypeDevelopment, EnvironmentTypeStaging, EnvironmentTypeProduction:
		return true
	}
	return false
}

// Environment represents a deployment environment for a project
type Environment struct {
	ID          string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string          `json:"name" gorm:"not null"` // Name must be unique per project
	Description string          `json:"description" gorm:"default:null"`
	Type        EnvironmentType `json:"type" gorm:"type:varchar(20);default:'development'"`
	ProjectID   string          `json:"projectId" gorm:"type:uuid;not null;index"`
	TeamID      string          `json:"teamId" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	Project Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Environment model
func (Environment) TableName() string {
	return "environments"
}
