package models

import (
	"time"

	"gorm.io/gorm"
)

// DatabaseEngine identifies a managed database flavor
type DatabaseEngine string

const (
	DatabaseEnginePostgreSQL DatabaseEngine = "postgresql"
	DatabaseEngineMySQL      DatabaseEngine = "mysql"
	DatabaseEngineMariaDB    DatabaseEngine = "mariadb"
	DatabaseEngineRedis      DatabaseEngine = "redis"
	DatabaseEngineKeyDB      DatabaseEngine = "keydb"
	DatabaseEngineDragonfly  DatabaseEngine = "dragonfly"
	DatabaseEngineClickhouse DatabaseEngine = "clickhouse"
	DatabaseEngineMongoDB    DatabaseEngine = "mongodb"
)

// SupportsDump reports whether the engine has dump/restore tooling wired in
func (e DatabaseEngine) SupportsDump() bool {
	switch e {
	case DatabaseEnginePostgreSQL, DatabaseEngineMySQL, DatabaseEngineMariaDB, DatabaseEngineMongoDB:
		return true
	}
	return false
}

// DatabaseInstance represents a managed database resource
type DatabaseInstance struct {
	ID            string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name          string `json:"name" gorm:"not null"`
	TeamID        string `json:"teamId" gorm:"type:uuid;not null;index"`
	EnvironmentID string `json:"environmentId" gorm:"type:uuid;not null;index"`
	ServerID      string `json:"serverId" gorm:"type:uuid;default:null"`

	Engine  DatabaseEngine `json:"engine" gorm:"type:varchar(20);not null"`
	Version string         `json:"version" gorm:"default:latest"`

	DatabaseName string  `json:"databaseName" gorm:"default:null"`
	PublicPort   int     `json:"publicPort" gorm:"default:0"`
	EnvVars      EnvVars `json:"envVars" gorm:"type:jsonb;default:'{}'"`

	Status string `json:"status" gorm:"default:inactive"` // inactive, starting, running, failed

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Environment Environment `json:"environment,omitempty" gorm:"foreignKey:EnvironmentID"`
}

// TableName sets the table name for DatabaseInstance model
func (DatabaseInstance) TableName() string {
	return "database_instances"
}
