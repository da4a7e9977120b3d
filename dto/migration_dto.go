package dto

import (
	"time"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// MigrationOptionsRequest mirrors the persisted migration options
type MigrationOptionsRequest struct {
	CopyEnvVars    bool `json:"copyEnvVars"`
	CopyVolumes    bool `json:"copyVolumes"`
	UpdateExisting bool `json:"updateExisting"`
	ConfigOnly     bool `json:"configOnly"`
}

// CreateMigrationRequest is the payload for creating a migration
type CreateMigrationRequest struct {
	ResourceKind        string                  `json:"resourceKind" binding:"required,oneof=application service database"`
	ResourceID          string                  `json:"resourceId" binding:"required"`
	TargetEnvironmentID string                  `json:"targetEnvironmentId" binding:"required"`
	TargetServerID      string                  `json:"targetServerId"`
	Options             MigrationOptionsRequest `json:"options"`
}

// CheckMigrationRequest is the payload for the dry-run policy check
type CheckMigrationRequest struct {
	ResourceKind        string `json:"resourceKind" binding:"required,oneof=application service database"`
	ResourceID          string `json:"resourceId" binding:"required"`
	TargetEnvironmentID string `json:"targetEnvironmentId" binding:"required"`
}

// CreateTransferRequest is the payload for creating a database transfer
type CreateTransferRequest struct {
	DatabaseID          string            `json:"databaseId" binding:"required"`
	TargetEnvironmentID string            `json:"targetEnvironmentId" binding:"required"`
	TargetServerID      string            `json:"targetServerId"`
	Mode                string            `json:"mode" binding:"required,oneof=clone data_only partial"`
	Options             map[string]string `json:"options"`
	CopyVolumes         bool              `json:"copyVolumes"`
}

// ApproveMigrationRequest carries the optional approval comment
type ApproveMigrationRequest struct {
	Comment string `json:"comment"`
}

// RejectMigrationRequest carries the mandatory rejection reason
type RejectMigrationRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// MigrationResponse is the API shape of a migration request
type MigrationResponse struct {
	UUID                string                  `json:"uuid"`
	Kind                models.RequestKind      `json:"kind"`
	ResourceKind        models.ResourceKind     `json:"resourceKind"`
	ResourceID          string                  `json:"resourceId"`
	ResourceName        string                  `json:"resourceName,omitempty"`
	SourceEnvironmentID string                  `json:"sourceEnvironmentId"`
	TargetEnvironmentID string                  `json:"targetEnvironmentId"`
	TargetServerID      string                  `json:"targetServerId,omitempty"`
	Status              models.MigrationStatus  `json:"status"`
	RequestedBy         string                  `json:"requestedBy"`
	ApprovedBy          *string                 `json:"approvedBy,omitempty"`
	ApprovalComment     string                  `json:"approvalComment,omitempty"`
	RejectionReason     string                  `json:"rejectionReason,omitempty"`
	ErrorMessage        string                  `json:"errorMessage,omitempty"`
	Options             models.MigrationOptions `json:"options"`
	RolledBackAt        *time.Time              `json:"rolledBackAt,omitempty"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

// MigrationDetailResponse adds the transition history and rollback snapshot
type MigrationDetailResponse struct {
	MigrationResponse
	History   models.History      `json:"history"`
	Artifacts models.ArtifactList `json:"artifacts"`
}

// NewMigrationResponse converts a model into the API shape
func NewMigrationResponse(m models.MigrationRequest) MigrationResponse {
	return MigrationResponse{
		UUID:                m.UUID,
		Kind:                m.Kind,
		ResourceKind:        m.ResourceKind,
		ResourceID:          m.ResourceID,
		ResourceName:        m.ResourceName,
		SourceEnvironmentID: m.SourceEnvironmentID,
		TargetEnvironmentID: m.TargetEnvironmentID,
		TargetServerID:      m.TargetServerID,
		Status:              m.Status,
		RequestedBy:         m.RequestedBy,
		ApprovedBy:          m.ApprovedBy,
		ApprovalComment:     m.ApprovalComment,
		RejectionReason:     m.RejectionReason,
		ErrorMessage:        m.ErrorMessage,
		Options:             m.Options,
		RolledBackAt:        m.RolledBackAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

// NewMigrationDetailResponse converts a model into the detail API shape
func NewMigrationDetailResponse(m models.MigrationRequest) MigrationDetailResponse {
	return MigrationDetailResponse{
		MigrationResponse: NewMigrationResponse(m),
		History:           m.History,
		Artifacts:         m.Artifacts,
	}
}
