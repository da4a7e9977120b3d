package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// EnvVars custom type for JSON storage
type EnvVars map[string]string

func (e EnvVars) Value() (driver.Value, error) {
	if e == nil {
		e = EnvVars{}
	}
	return json.Marshal(e)
}

func (e *EnvVars) Scan(value interface{}) error {
	if value == nil {
		*e = make(map[string]string)
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, e)
}

// Clone returns an independent copy of the variable map
func (e EnvVars) Clone() EnvVars {
	out := make(EnvVars, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Service represents a one-off composed service (templates, compose stacks)
type Service struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string `json:"name" gorm:"not null"`
	TeamID        string `json:"teamId" gorm:"type:uuid;not null;index"`
	EnvironmentID string `json:"environmentId" gorm:"type:uuid;not null;index"`
	ServerID      string `json:"serverId" gorm:"type:uuid;default:null"`

	Image        string  `json:"image" gorm:"default:null"`
	ComposeSpec  string  `json:"composeSpec" gorm:"type:text;default:null"`
	Port         int     `json:"port" gorm:"default:3000"`
	EnvVars      EnvVars `json:"envVars" gorm:"type:jsonb;default:'{}'"`
	StartCommand string  `json:"startCommand" gorm:"default:null"`

	Status string `json:"status" gorm:"default:inactive"` // inactive, running, failed

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Environment Environment `json:"environment,omitempty" gorm:"foreignKey:EnvironmentID"`
}

// TableName sets the table name for Service model
func (Service) TableName() string {
	return "services"
}
