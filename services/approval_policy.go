package services

import (
	"fmt"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// ApprovalDecision is the oracle's verdict on a proposed migration.
// It is an ephemeral value, never persisted.
type ApprovalDecision struct {
	Allowed          bool   `json:"allowed"`
	RequiresApproval bool   `json:"requiresApproval"`
	Reason           string `json:"reason,omitempty"`
}

// ApprovalPolicy decides whether a user may migrate a resource between two
// environments and whether a human approval gate applies. Evaluate is pure:
// the pre-flight check endpoint and the create path share it, so the two
// can never disagree.
type ApprovalPolicy struct{}

// NewApprovalPolicy creates a new approval policy instance
func NewApprovalPolicy() *ApprovalPolicy {
	return &ApprovalPolicy{}
}

// Evaluate applies the team's promotion policy to a proposed migration
func (p *ApprovalPolicy) Evaluate(member models.TeamMember, team models.Team, source, target models.Environment) ApprovalDecision {
	if !member.Role.CanMigrate() {
		return ApprovalDecision{
			Allowed: false,
			Reason:  fmt.Sprintf("role %q cannot migrate resources", member.Role),
		}
	}

	if target.Type.IsProtected() && team.RequireApprovalForProduction && !member.Role.CanApprove() {
		return ApprovalDecision{
			Allowed:          true,
			RequiresApproval: true,
			Reason:           fmt.Sprintf("promotion into %s environment %q requires approval", target.Type, target.Name),
		}
	}

	return ApprovalDecision{Allowed: true}
}
