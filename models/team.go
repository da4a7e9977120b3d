package models

import (
	"time"

	"gorm.io/gorm"
)

// TeamRole represents a member's role within a team
type TeamRole string

const (
	TeamRoleOwner  TeamRole = "owner"
	TeamRoleAdmin  TeamRole = "admin"
	TeamRoleMember TeamRole = "member"
	TeamRoleViewer TeamRole = "viewer"
)

var teamRoleRank = map[TeamRole]int{
	TeamRoleViewer: 0,
	TeamRoleMember: 1,
	TeamRoleAdmin:  2,
	TeamRoleOwner:  3,
}

// AtLeast reports whether r carries at least the privileges of other
func (r TeamRole) AtLeast(other TeamRole) bool {
	return teamRoleRank[r] >= teamRoleRank[other]
}

// CanMigrate reports whether the role can request migrations at all
func (r TeamRole) CanMigrate() bool {
	return r.AtLeast(TeamRoleMember)
}

// CanApprove reports whether the role can approve or reject requests
func (r TeamRole) CanApprove() bool {
	return r.AtLeast(TeamRoleAdmin)
}

// Team represents an owning tenant. Every domain row is scoped by team ID.
type Team struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"default:null"`

	// Approval policy: promotions into production-type environments by
	// members below admin need an approver.
	RequireApprovalForProduction bool `json:"requireApprovalForProduction" gorm:"default:true"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Members  []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	Projects []Project    `json:"projects,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for Team model
func (Team) TableName() string {
	return "teams"
}

// TeamMember links a user to a team with a role
type TeamMember struct {
	ID     string   `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	TeamID string   `json:"teamId" gorm:"type:uuid;not null;uniqueIndex:idx_team_user"`
	UserID string   `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_team_user"`
	Role   TeamRole `json:"role" gorm:"type:varchar(10);default:'member'"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Relations
	Team Team `json:"team,omitempty" gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName sets the table name for TeamMember model
func (TeamMember) TableName() string {
	return "team_members"
}
