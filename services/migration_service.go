package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kpizzy812/saturn-platform-sub000/dto"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// MigrationService implements the migration request lifecycle: creation
// (with policy evaluation), approval, rejection and cancellation. Execution
// itself is handed to the background executor.
type MigrationService struct {
	migrations   migrationStore
	environments environmentStore
	servers      serverStore
	teams        teamStore
	resources    resourceStore
	policy       *ApprovalPolicy
	executor     executionEnqueuer
	notify       notifier
}

// NewMigrationService creates a migration service wired to postgres-backed
// repositories and the given executor
func NewMigrationService(executor executionEnqueuer) *MigrationService {
	return &MigrationService{
		migrations:   repositories.NewMigrationRequestRepository(),
		environments: repositories.NewEnvironmentRepository(),
		servers:      repositories.NewServerRepository(),
		teams:        repositories.NewTeamRepository(),
		resources:    repositories.NewResourceRepository(),
		policy:       NewApprovalPolicy(),
		executor:     executor,
		notify:       NewNotificationService(),
	}
}

// preflight resolves everything a create or check needs and runs the shared
// validation chain: target scope, same-project invariant, policy verdict.
// Both paths use it, so check and create can never disagree.
type preflightResult struct {
	resource models.Resource
	source   models.Environment
	target   models.Environment
	member   models.TeamMember
	decision ApprovalDecision
}

func (s *MigrationService) preflight(teamID, userID string, kind models.ResourceKind, resourceID, targetEnvironmentID string) (preflightResult, error) {
	var out preflightResult

	target, err := s.environments.FindByID(targetEnvironmentID, teamID)
	if err != nil {
		return out, asNotFound(err)
	}

	resource, err := s.resources.Find(kind, resourceID, teamID)
	if err != nil {
		return out, asNotFound(err)
	}

	source, err := s.environments.FindByID(resource.ResourceEnvironmentID(), teamID)
	if err != nil {
		return out, asNotFound(err)
	}

	if source.ProjectID != target.ProjectID {
		return out, fmt.Errorf("cross-project migration not allowed: %w", ErrValidation)
	}

	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return out, asNotFound(err)
	}
	team, err := s.teams.FindByID(teamID)
	if err != nil {
		return out, asNotFound(err)
	}

	decision := s.policy.Evaluate(member, team, source, target)
	if !decision.Allowed {
		return out, fmt.Errorf("%s: %w", decision.Reason, ErrForbidden)
	}

	out = preflightResult{resource: resource, source: source, target: target, member: member, decision: decision}
	return out, nil
}

// Check is the dry-run policy evaluation behind POST /migrations/check
func (s *MigrationService) Check(teamID, userID string, req dto.CheckMigrationRequest) (ApprovalDecision, error) {
	pf, err := s.preflight(teamID, userID, models.ResourceKind(req.ResourceKind), req.ResourceID, req.TargetEnvironmentID)
	if err != nil {
		return ApprovalDecision{}, err
	}
	return pf.decision, nil
}

// Create validates and persists a new migration request. Auto-approved
// requests are queued for execution before this returns.
func (s *MigrationService) Create(teamID, userID string, req dto.CreateMigrationRequest) (models.MigrationRequest, error) {
	options := models.MigrationOptions{
		CopyEnvVars:    req.Options.CopyEnvVars,
		CopyVolumes:    req.Options.CopyVolumes,
		UpdateExisting: req.Options.UpdateExisting,
		ConfigOnly:     req.Options.ConfigOnly,
	}
	return s.createRequest(teamID, userID, models.RequestKindMigration,
		models.ResourceKind(req.ResourceKind), req.ResourceID,
		req.TargetEnvironmentID, req.TargetServerID, options)
}

// CreateTransfer validates and persists a database transfer request
func (s *MigrationService) CreateTransfer(teamID, userID string, req dto.CreateTransferRequest) (models.MigrationRequest, error) {
	options := models.MigrationOptions{
		CopyVolumes:     req.CopyVolumes,
		TransferMode:    models.TransferMode(req.Mode),
		TransferOptions: req.Options,
	}
	return s.createRequest(teamID, userID, models.RequestKindTransfer,
		models.ResourceKindDatabase, req.DatabaseID,
		req.TargetEnvironmentID, req.TargetServerID, options)
}

func (s *MigrationService) createRequest(teamID, userID string, kind models.RequestKind, resourceKind models.ResourceKind, resourceID, targetEnvironmentID, targetServerID string, options models.MigrationOptions) (models.MigrationRequest, error) {
	var empty models.MigrationRequest

	if targetServerID != "" {
		if _, err := s.servers.FindByID(targetServerID, teamID); err != nil {
			return empty, asNotFound(err)
		}
	}

	pf, err := s.preflight(teamID, userID, resourceKind, resourceID, targetEnvironmentID)
	if err != nil {
		return empty, err
	}

	if _, exists, err := s.migrations.FindActive(resourceKind, resourceID, targetEnvironmentID); err != nil {
		return empty, err
	} else if exists {
		return empty, fmt.Errorf("migration already in progress for this resource and target: %w", ErrConflict)
	}

	status := models.MigrationStatusApproved
	if pf.decision.RequiresApproval {
		status = models.MigrationStatusPendingApproval
	}

	request := models.MigrationRequest{
		UUID:                uuid.NewString(),
		TeamID:              teamID,
		Kind:                kind,
		ResourceKind:        resourceKind,
		ResourceID:          resourceID,
		ResourceName:        pf.resource.ResourceName(),
		SourceEnvironmentID: pf.source.ID,
		TargetEnvironmentID: targetEnvironmentID,
		TargetServerID:      targetServerID,
		Status:              status,
		RequestedBy:         userID,
		Options:             options,
		History: models.History{{
			To:    status,
			Actor: userID,
			At:    time.Now().UTC(),
			Note:  "request created",
		}},
	}

	request, err = s.migrations.Create(request)
	if err != nil {
		// The partial unique index catches the race two concurrent creates
		// open between the FindActive lookup and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return empty, fmt.Errorf("migration already in progress for this resource and target: %w", ErrConflict)
		}
		return empty, err
	}

	if status == models.MigrationStatusApproved {
		if err := s.enqueueApproved(&request, "system"); err != nil {
			return request, err
		}
	}

	logrus.WithFields(logrus.Fields{
		"component": "migrations",
		"request":   request.UUID,
		"status":    request.Status,
	}).Info("migration request created")

	return request, nil
}

// enqueueApproved moves an approved request to queued and hands it to the
// executor. The queued CAS doubles as the duplicate-dispatch guard.
func (s *MigrationService) enqueueApproved(request *models.MigrationRequest, actor string) error {
	history := request.History.Append(models.HistoryEntry{
		From:  models.MigrationStatusApproved,
		To:    models.MigrationStatusQueued,
		Actor: actor,
		At:    time.Now().UTC(),
	})

	ok, err := s.migrations.TransitionStatus(request.ID,
		models.MigrationStatusApproved, models.MigrationStatusQueued,
		map[string]interface{}{"history": history})
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("request is no longer approved: %w", ErrConflict)
	}
	request.Status = models.MigrationStatusQueued
	request.History = history

	return s.executor.EnqueueExecution(request.ID)
}

// List returns the team's requests, optionally filtered by status
func (s *MigrationService) List(teamID string, status string) ([]models.MigrationRequest, error) {
	if status != "" && !validStatusFilter(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrValidation)
	}
	return s.migrations.ListByTeam(teamID, models.MigrationStatus(status))
}

func validStatusFilter(status string) bool {
	switch models.MigrationStatus(status) {
	case models.MigrationStatusPendingApproval, models.MigrationStatusApproved,
		models.MigrationStatusQueued, models.MigrationStatusPreparing,
		models.MigrationStatusTransferring, models.MigrationStatusExecuting,
		models.MigrationStatusCompleted, models.MigrationStatusFailed,
		models.MigrationStatusRejected, models.MigrationStatusCancelled:
		return true
	}
	return false
}

// PendingForApprover returns the requests the given user can act on.
// Own requests are excluded for everyone but the team owner, matching the
// self-approval rule in Approve.
func (s *MigrationService) PendingForApprover(teamID, userID string) ([]models.MigrationRequest, error) {
	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if !member.Role.CanApprove() {
		return []models.MigrationRequest{}, nil
	}

	pending, err := s.migrations.ListPendingApproval(teamID)
	if err != nil {
		return nil, err
	}

	out := make([]models.MigrationRequest, 0, len(pending))
	for _, req := range pending {
		if req.RequestedBy == userID && member.Role != models.TeamRoleOwner {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

// Get returns one request with full history, scoped to the team
func (s *MigrationService) Get(teamID, requestUUID string) (models.MigrationRequest, error) {
	request, err := s.migrations.FindByUUID(requestUUID, teamID)
	if err != nil {
		return request, asNotFound(err)
	}
	return request, nil
}

// Approve moves a pending request to approved and queues execution.
// Requesters may not approve their own request unless they own the team.
func (s *MigrationService) Approve(teamID, userID, requestUUID, comment string) (models.MigrationRequest, error) {
	request, err := s.migrations.FindByUUID(requestUUID, teamID)
	if err != nil {
		return request, asNotFound(err)
	}

	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return request, asNotFound(err)
	}
	if !member.Role.CanApprove() {
		return request, fmt.Errorf("role %q cannot approve migrations: %w", member.Role, ErrForbidden)
	}
	if request.RequestedBy == userID && member.Role != models.TeamRoleOwner {
		return request, fmt.Errorf("requesters may not approve their own migration: %w", ErrForbidden)
	}

	if request.Status != models.MigrationStatusPendingApproval {
		return request, fmt.Errorf("request is not pending approval (status %s): %w", request.Status, ErrConflict)
	}

	history := request.History.Append(models.HistoryEntry{
		From:  models.MigrationStatusPendingApproval,
		To:    models.MigrationStatusApproved,
		Actor: userID,
		At:    time.Now().UTC(),
		Note:  comment,
	})

	ok, err := s.migrations.TransitionStatus(request.ID,
		models.MigrationStatusPendingApproval, models.MigrationStatusApproved,
		map[string]interface{}{
			"approved_by":      userID,
			"approval_comment": comment,
			"history":          history,
		})
	if err != nil {
		return request, err
	}
	if !ok {
		return request, fmt.Errorf("request is not pending approval: %w", ErrConflict)
	}

	request.Status = models.MigrationStatusApproved
	request.ApprovedBy = &userID
	request.ApprovalComment = comment
	request.History = history

	if err := s.enqueueApproved(&request, userID); err != nil {
		return request, err
	}

	// Tell the requester only once the request is actually queued.
	s.notify.Notify(request.RequestedBy, teamID, models.NotificationMigrationApproved,
		fmt.Sprintf("Migration of %s %q was approved", request.ResourceKind, request.ResourceName))

	return request, nil
}

// Reject moves a pending request to rejected. The reason is mandatory.
func (s *MigrationService) Reject(teamID, userID, requestUUID, reason string) (models.MigrationRequest, error) {
	var request models.MigrationRequest

	if strings.TrimSpace(reason) == "" {
		return request, fmt.Errorf("rejection reason is required: %w", ErrValidation)
	}

	request, err := s.migrations.FindByUUID(requestUUID, teamID)
	if err != nil {
		return request, asNotFound(err)
	}

	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return request, asNotFound(err)
	}
	if !member.Role.CanApprove() {
		return request, fmt.Errorf("role %q cannot reject migrations: %w", member.Role, ErrForbidden)
	}

	if request.Status != models.MigrationStatusPendingApproval {
		return request, fmt.Errorf("request is not pending approval (status %s): %w", request.Status, ErrConflict)
	}

	history := request.History.Append(models.HistoryEntry{
		From:  models.MigrationStatusPendingApproval,
		To:    models.MigrationStatusRejected,
		Actor: userID,
		At:    time.Now().UTC(),
		Note:  reason,
	})

	ok, err := s.migrations.TransitionStatus(request.ID,
		models.MigrationStatusPendingApproval, models.MigrationStatusRejected,
		map[string]interface{}{
			"rejection_reason": reason,
			"history":          history,
		})
	if err != nil {
		return request, err
	}
	if !ok {
		return request, fmt.Errorf("request is not pending approval: %w", ErrConflict)
	}

	request.Status = models.MigrationStatusRejected
	request.RejectionReason = reason
	request.History = history

	s.notify.Notify(request.RequestedBy, teamID, models.NotificationMigrationRejected,
		fmt.Sprintf("Migration of %s %q was rejected: %s", request.ResourceKind, request.ResourceName, reason))

	return request, nil
}

// Cancel aborts a request that has not started mutating the target yet.
// Only the requester or an approver may cancel.
func (s *MigrationService) Cancel(teamID, userID, requestUUID string) (models.MigrationRequest, error) {
	request, err := s.migrations.FindByUUID(requestUUID, teamID)
	if err != nil {
		return request, asNotFound(err)
	}

	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return request, asNotFound(err)
	}
	if request.RequestedBy != userID && !member.Role.CanApprove() {
		return request, fmt.Errorf("only the requester or an approver can cancel: %w", ErrForbidden)
	}

	if !request.Status.IsCancellable() {
		return request, fmt.Errorf("cannot cancel a request in status %s: %w", request.Status, ErrConflict)
	}

	history := request.History.Append(models.HistoryEntry{
		From:  request.Status,
		To:    models.MigrationStatusCancelled,
		Actor: userID,
		At:    time.Now().UTC(),
	})

	ok, err := s.migrations.TransitionStatus(request.ID,
		request.Status, models.MigrationStatusCancelled,
		map[string]interface{}{"history": history})
	if err != nil {
		return request, err
	}
	if !ok {
		return request, fmt.Errorf("request moved out of status %s: %w", request.Status, ErrConflict)
	}

	request.Status = models.MigrationStatusCancelled
	request.History = history
	return request, nil
}
