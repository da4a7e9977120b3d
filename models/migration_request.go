package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// MigrationStatus represents the lifecycle state of a migration request
type MigrationStatus string

const (
	MigrationStatusPendingApproval MigrationStatus = "pending_approval"
	MigrationStatusApproved        MigrationStatus = "approved"
	MigrationStatusQueued          MigrationStatus = "queued"
	MigrationStatusPreparing       MigrationStatus = "preparing"    // transfers only
	MigrationStatusTransferring    MigrationStatus = "transferring" // transfers only
	MigrationStatusExecuting       MigrationStatus = "executing"
	MigrationStatusCompleted       MigrationStatus = "completed"
	MigrationStatusFailed          MigrationStatus = "failed"
	MigrationStatusRejected        MigrationStatus = "rejected"
	MigrationStatusCancelled       MigrationStatus = "cancelled"
)

// migrationTransitions is the full set of allowed status edges.
// Transitions not listed here are rejected regardless of who asks.
var migrationTransitions = map[MigrationStatus][]MigrationStatus{
	MigrationStatusPendingApproval: {MigrationStatusApproved, MigrationStatusRejected, MigrationStatusCancelled},
	MigrationStatusApproved:        {MigrationStatusQueued},
	MigrationStatusQueued:          {MigrationStatusExecuting, MigrationStatusPreparing, MigrationStatusCancelled},
	MigrationStatusPreparing:       {MigrationStatusTransferring, MigrationStatusFailed, MigrationStatusCancelled},
	MigrationStatusTransferring:    {MigrationStatusCompleted, MigrationStatusFailed, MigrationStatusCancelled},
	MigrationStatusExecuting:       {MigrationStatusCompleted, MigrationStatusFailed},
}

// CanTransitionTo reports whether the edge from s to target is allowed
func (s MigrationStatus) CanTransitionTo(target MigrationStatus) bool {
	for _, next := range migrationTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s permits no further transitions
func (s MigrationStatus) IsTerminal() bool {
	switch s {
	case MigrationStatusCompleted, MigrationStatusFailed, MigrationStatusRejected, MigrationStatusCancelled:
		return true
	}
	return false
}

// IsCancellable reports whether a user-triggered cancel is allowed from s.
// Once execution has side effects in flight, cancel is refused.
func (s MigrationStatus) IsCancellable() bool {
	switch s {
	case MigrationStatusPendingApproval, MigrationStatusQueued, MigrationStatusPreparing, MigrationStatusTransferring:
		return true
	}
	return false
}

// ActiveStatuses returns every non-terminal status, used for duplicate-request checks
func ActiveStatuses() []MigrationStatus {
	return []MigrationStatus{
		MigrationStatusPendingApproval,
		MigrationStatusApproved,
		MigrationStatusQueued,
		MigrationStatusPreparing,
		MigrationStatusTransferring,
		MigrationStatusExecuting,
	}
}

// RequestKind distinguishes environment migrations from database transfers
type RequestKind string

const (
	RequestKindMigration RequestKind = "migration"
	RequestKindTransfer  RequestKind = "transfer"
)

// ResourceKind identifies the type of resource a migration moves
type ResourceKind string

const (
	ResourceKindApplication ResourceKind = "application"
	ResourceKindService     ResourceKind = "service"
	ResourceKindDatabase    ResourceKind = "database"
)

// TransferMode controls how a database transfer copies data
type TransferMode string

const (
	TransferModeClone    TransferMode = "clone"
	TransferModeDataOnly TransferMode = "data_only"
	TransferModePartial  TransferMode = "partial"
)

// MigrationOptions custom type for JSON storage
type MigrationOptions struct {
	CopyEnvVars     bool              `json:"copyEnvVars"`
	CopyVolumes     bool              `json:"copyVolumes"`
	UpdateExisting  bool              `json:"updateExisting"`
	ConfigOnly      bool              `json:"configOnly"`
	TransferMode    TransferMode      `json:"transferMode,omitempty"`
	TransferOptions map[string]string `json:"transferOptions,omitempty"`
}

func (o MigrationOptions) Value() (driver.Value, error) {
	return json.Marshal(o)
}

func (o *MigrationOptions) Scan(value interface{}) error {
	if value == nil {
		*o = MigrationOptions{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, o)
}

// HistoryEntry is one recorded status transition
type HistoryEntry struct {
	From  MigrationStatus `json:"from"`
	To    MigrationStatus `json:"to"`
	Actor string          `json:"actor"`
	At    time.Time       `json:"at"`
	Note  string          `json:"note,omitempty"`
}

// History is the ordered transition log of a request
type History []HistoryEntry

func (h History) Value() (driver.Value, error) {
	if h == nil {
		h = History{}
	}
	return json.Marshal(h)
}

func (h *History) Scan(value interface{}) error {
	if value == nil {
		*h = History{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, h)
}

// Append returns a new history with entry added, leaving the receiver untouched
func (h History) Append(entry HistoryEntry) History {
	out := make(History, 0, len(h)+1)
	out = append(out, h...)
	out = append(out, entry)
	return out
}

// Artifact records one object created on the target side during execution.
// The artifact list is the rollback snapshot: reversal walks it last-to-first.
type Artifact struct {
	Kind ResourceKind `json:"kind"`
	ID   string       `json:"id"`
	Name string       `json:"name,omitempty"`
	// OfKind carries the resource kind an env_vars artifact belongs to
	OfKind ResourceKind `json:"ofKind,omitempty"`
}

const (
	// Artifact kinds beyond the migratable resource kinds
	ArtifactKindVolume  ResourceKind = "volume"
	ArtifactKindEnvVars ResourceKind = "env_vars"
)

// ArtifactList is the JSONB rollback snapshot column
type ArtifactList []Artifact

func (a ArtifactList) Value() (driver.Value, error) {
	if a == nil {
		a = ArtifactList{}
	}
	return json.Marshal(a)
}

func (a *ArtifactList) Scan(value interface{}) error {
	if value == nil {
		*a = ArtifactList{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, a)
}

// MigrationRequest represents a request to move a resource between environments.
// Rows are never physically deleted; terminal requests are kept for audit.
type MigrationRequest struct {
	ID   string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UUID string `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`

	TeamID string      `json:"teamId" gorm:"type:uuid;not null;index"`
	Kind   RequestKind `json:"kind" gorm:"type:varchar(20);default:'migration'"`

	ResourceKind ResourceKind `json:"resourceKind" gorm:"type:varchar(20);not null"`
	ResourceID   string       `json:"resourceId" gorm:"type:uuid;not null;index"`
	ResourceName string       `json:"resourceName" gorm:"default:null"`

	SourceEnvironmentID string `json:"sourceEnvironmentId" gorm:"type:uuid;not null"`
	TargetEnvironmentID string `json:"targetEnvironmentId" gorm:"type:uuid;not null;index"`
	TargetServerID      string `json:"targetServerId" gorm:"type:uuid;default:null"`

	Status MigrationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending_approval';index"`

	RequestedBy     string  `json:"requestedBy" gorm:"type:uuid;not null"`
	ApprovedBy      *string `json:"approvedBy" gorm:"type:uuid;default:null"`
	ApprovalComment string  `json:"approvalComment" gorm:"default:null"`
	RejectionReason string  `json:"rejectionReason" gorm:"default:null"`
	ErrorMessage    string  `json:"errorMessage" gorm:"default:null"`

	Options   MigrationOptions `json:"options" gorm:"type:jsonb;default:'{}'"`
	History   History          `json:"history" gorm:"type:jsonb;default:'[]'"`
	Artifacts ArtifactList     `json:"artifacts" gorm:"type:jsonb;default:'[]'"`

	RolledBackAt *time.Time `json:"rolledBackAt" gorm:"default:null"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	// Relations
	SourceEnvironment Environment `json:"sourceEnvironment,omitempty" gorm:"foreignKey:SourceEnvironmentID"`
	TargetEnvironment Environment `json:"targetEnvironment,omitempty" gorm:"foreignKey:TargetEnvironmentID"`
}

// TableName sets the table name for MigrationRequest model
func (MigrationRequest) TableName() string {
	return "migration_requests"
}
