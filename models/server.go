package models

import (
	"time"

	"gorm.io/gorm"
)

// Server represents a host that resources are deployed onto
type Server struct {
	ID          string         `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description" gorm:"default:null"`
	TeamID      string         `json:"teamId" gorm:"type:uuid;not null;index"`
	IP          string         `json:"ip" gorm:"not null"`
	Port        int            `json:"port" gorm:"default:22"`
	User        string         `json:"user" gorm:"default:root"`
	Reachable   bool           `json:"reachable" gorm:"default:true"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name for Server model
func (Server) TableName() string {
	return "servers"
}
