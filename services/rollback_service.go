package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kpizzy812/saturn-platform-sub000/lib/datatransfer"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// RollbackService reverses a completed migration's target-side effects.
// Artifacts are removed in reverse creation order; the source side is never
// touched. A failed step stops the rollback and reports what remains.
type RollbackService struct {
	migrations migrationStore
	resources  resourceStore
	volumes    volumeStore
	teams      teamStore
	transfer   datatransfer.Runner
	log        *logrus.Entry
}

// NewRollbackService creates a rollback service wired to postgres-backed
// repositories
func NewRollbackService() *RollbackService {
	return &RollbackService{
		migrations: repositories.NewMigrationRequestRepository(),
		resources:  repositories.NewResourceRepository(),
		volumes:    repositories.NewVolumeRepository(),
		teams:      repositories.NewTeamRepository(),
		transfer:   datatransfer.NewShellRunner(),
		log:        logrus.WithField("component", "rollback"),
	}
}

// Rollback undoes what execution created on the target side
func (s *RollbackService) Rollback(ctx context.Context, teamID, userID, requestUUID string) (models.MigrationRequest, error) {
	request, err := s.migrations.FindByUUID(requestUUID, teamID)
	if err != nil {
		return request, asNotFound(err)
	}

	member, err := s.teams.FindMember(teamID, userID)
	if err != nil {
		return request, asNotFound(err)
	}
	if !member.Role.CanApprove() {
		return request, fmt.Errorf("role %q cannot roll back migrations: %w", member.Role, ErrForbidden)
	}

	if request.Status != models.MigrationStatusCompleted {
		return request, fmt.Errorf("only completed migrations can be rolled back (status %s): %w", request.Status, ErrConflict)
	}
	if request.RolledBackAt != nil {
		return request, fmt.Errorf("migration was already rolled back: %w", ErrConflict)
	}
	if len(request.Artifacts) == 0 {
		return request, fmt.Errorf("no rollback snapshot recorded for this migration: %w", ErrConflict)
	}

	remaining := make(models.ArtifactList, len(request.Artifacts))
	copy(remaining, request.Artifacts)

	// LIFO: last created, first removed.
	for len(remaining) > 0 {
		artifact := remaining[len(remaining)-1]
		if err := s.revert(ctx, artifact); err != nil {
			s.persistPartial(&request, remaining, artifact, err)
			return request, fmt.Errorf("rollback stopped at %s %s (%d artifacts remain): %v", artifact.Kind, artifact.ID, len(remaining), err)
		}
		remaining = remaining[:len(remaining)-1]
	}

	now := time.Now().UTC()
	request.Artifacts = models.ArtifactList{}
	request.RolledBackAt = &now
	request.History = request.History.Append(models.HistoryEntry{
		From:  models.MigrationStatusCompleted,
		To:    models.MigrationStatusCompleted,
		Actor: userID,
		At:    now,
		Note:  "rolled back",
	})
	if err := s.migrations.Update(request); err != nil {
		return request, err
	}

	s.log.WithField("request", request.UUID).Info("rollback completed")
	return request, nil
}

// revert undoes a single artifact
func (s *RollbackService) revert(ctx context.Context, artifact models.Artifact) error {
	switch artifact.Kind {
	case models.ArtifactKindVolume:
		volume, err := s.volumes.FindByID(artifact.ID)
		if err != nil {
			return fmt.Errorf("volume lookup: %w", err)
		}
		if err := s.transfer.RemoveVolumeData(ctx, volume); err != nil {
			return err
		}
		return s.volumes.Delete(artifact.ID)

	case models.ArtifactKindEnvVars:
		return s.resources.ClearEnvVars(artifact.OfKind, artifact.ID)

	case models.ResourceKindApplication, models.ResourceKindService, models.ResourceKindDatabase:
		// Stop before delete so nothing keeps running against a row that
		// is about to disappear.
		if err := s.resources.SetStatus(artifact.Kind, artifact.ID, "inactive"); err != nil {
			return err
		}
		return s.resources.Delete(artifact.Kind, artifact.ID)

	default:
		return fmt.Errorf("unknown artifact kind %q", artifact.Kind)
	}
}

// persistPartial records how far the rollback got. Remaining artifacts stay
// on the request so a later attempt can pick up where this one stopped.
func (s *RollbackService) persistPartial(request *models.MigrationRequest, remaining models.ArtifactList, failed models.Artifact, cause error) {
	request.Artifacts = remaining
	request.History = request.History.Append(models.HistoryEntry{
		From:  models.MigrationStatusCompleted,
		To:    models.MigrationStatusCompleted,
		Actor: "system",
		At:    time.Now().UTC(),
		Note:  fmt.Sprintf("rollback stopped at %s %s: %v", failed.Kind, failed.ID, cause),
	})
	if err := s.migrations.Update(*request); err != nil {
		s.log.Errorf("could not persist partial rollback for %s: %v", request.UUID, err)
	}
}
