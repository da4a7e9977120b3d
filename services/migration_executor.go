package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/kpizzy812/saturn-platform-sub000/lib/datatransfer"
	"github.com/kpizzy812/saturn-platform-sub000/lib/queue"
	"github.com/kpizzy812/saturn-platform-sub000/models"
	"github.com/kpizzy812/saturn-platform-sub000/repositories"
)

// MigrationExecutor runs approved requests on the background queue.
// Execution is at-most-once per request: every lifecycle move is a status
// compare-and-set, so a redelivered or duplicated task loses the race and
// exits without side effects.
type MigrationExecutor struct {
	migrations migrationStore
	resources  resourceStore
	volumes    volumeStore
	transfer   datatransfer.Runner
	queue      *queue.Queue
	notify     notifier
	log        *logrus.Entry
}

// NewMigrationExecutor creates an executor backed by the given queue
func NewMigrationExecutor(q *queue.Queue) *MigrationExecutor {
	return &MigrationExecutor{
		migrations: repositories.NewMigrationRequestRepository(),
		resources:  repositories.NewResourceRepository(),
		volumes:    repositories.NewVolumeRepository(),
		transfer:   datatransfer.NewShellRunner(),
		queue:      q,
		notify:     NewNotificationService(),
		log:        logrus.WithField("component", "executor"),
	}
}

// EnqueueExecution hands a queued request to the worker pool
func (e *MigrationExecutor) EnqueueExecution(requestID string) error {
	return e.queue.Enqueue(func(ctx context.Context) {
		e.Run(ctx, requestID)
	})
}

// ResumeQueued re-dispatches requests stranded in queued. Rows end up
// there when the process stopped between the approval CAS and execution,
// or when the queue was full at approval time. The queued → executing CAS
// in Run keeps redelivery harmless.
func (e *MigrationExecutor) ResumeQueued() error {
	stranded, err := e.migrations.ListByStatus(models.MigrationStatusQueued)
	if err != nil {
		return fmt.Errorf("listing queued requests: %w", err)
	}

	for _, request := range stranded {
		if err := e.EnqueueExecution(request.ID); err != nil {
			e.log.Errorf("cannot resume request %s: %v", request.UUID, err)
			continue
		}
		e.log.WithField("request", request.UUID).Info("resumed queued request")
	}
	return nil
}

// Run executes one request. Errors are recorded on the request row; the
// original caller is long gone by the time this runs.
func (e *MigrationExecutor) Run(ctx context.Context, requestID string) {
	request, err := e.migrations.FindByID(requestID)
	if err != nil {
		e.log.Errorf("cannot load request %s: %v", requestID, err)
		return
	}

	first := models.MigrationStatusExecuting
	if request.Kind == models.RequestKindTransfer {
		first = models.MigrationStatusPreparing
	}

	ok, err := e.transition(&request, models.MigrationStatusQueued, first, nil)
	if err != nil {
		e.log.Errorf("request %s: %v", request.UUID, err)
		return
	}
	if !ok {
		// Redelivered or raced task; someone else owns this request.
		e.log.WithField("request", request.UUID).Debug("duplicate dispatch suppressed")
		return
	}

	artifacts := models.ArtifactList{}
	err = e.execute(ctx, &request, &artifacts)
	if err != nil {
		e.markFailed(&request, artifacts, err)
		return
	}
	e.markCompleted(&request, artifacts)
}

// transition CASes the request forward and keeps the in-memory copy in sync
func (e *MigrationExecutor) transition(request *models.MigrationRequest, from, to models.MigrationStatus, extra map[string]interface{}) (bool, error) {
	history := request.History.Append(models.HistoryEntry{
		From:  from,
		To:    to,
		Actor: "system",
		At:    time.Now().UTC(),
	})

	updates := map[string]interface{}{"history": history}
	for k, v := range extra {
		updates[k] = v
	}

	ok, err := e.migrations.TransitionStatus(request.ID, from, to, updates)
	if err != nil || !ok {
		return ok, err
	}
	request.Status = to
	request.History = history
	return true, nil
}

func (e *MigrationExecutor) execute(ctx context.Context, request *models.MigrationRequest, artifacts *models.ArtifactList) error {
	source, err := e.resources.Find(request.ResourceKind, request.ResourceID, request.TeamID)
	if err != nil {
		return fmt.Errorf("source resource vanished: %w", err)
	}

	target, created, err := e.resolveTarget(request, source)
	if err != nil {
		return err
	}
	if created {
		*artifacts = append(*artifacts, models.Artifact{
			Kind: request.ResourceKind,
			ID:   target.ResourceID(),
			Name: target.ResourceName(),
		})
	}

	if request.Options.ConfigOnly {
		return nil
	}

	if request.Options.CopyEnvVars {
		if err := e.resources.SetEnvVars(request.ResourceKind, target.ResourceID(), source.ResourceEnvVars().Clone()); err != nil {
			return fmt.Errorf("copying environment variables: %w", err)
		}
		*artifacts = append(*artifacts, models.Artifact{
			Kind:   models.ArtifactKindEnvVars,
			ID:     target.ResourceID(),
			OfKind: request.ResourceKind,
		})
	}

	copyVolumes := request.Options.CopyVolumes ||
		(request.Kind == models.RequestKindTransfer && request.Options.TransferMode == models.TransferModeClone)
	if copyVolumes {
		if err := e.copyVolumes(ctx, request, source, target, artifacts); err != nil {
			return err
		}
	}

	if request.Kind == models.RequestKindTransfer {
		if err := e.transferData(ctx, request, source, target); err != nil {
			return err
		}
	}

	// Leave the clone startable; actual deploys go through the regular
	// deployment path once the operator flips it on.
	if err := e.resources.SetStatus(request.ResourceKind, target.ResourceID(), "inactive"); err != nil {
		return fmt.Errorf("finalizing target resource: %w", err)
	}
	return nil
}

// resolveTarget finds or creates the resource on the target side. The
// update_existing option reuses a same-named resource instead of cloning.
func (e *MigrationExecutor) resolveTarget(request *models.MigrationRequest, source models.Resource) (models.Resource, bool, error) {
	if request.Options.UpdateExisting ||
		(request.Kind == models.RequestKindTransfer && request.Options.TransferMode == models.TransferModeDataOnly) {
		existing, found, err := e.resources.FindByNameInEnvironment(request.ResourceKind, source.ResourceName(), request.TargetEnvironmentID)
		if err != nil {
			return nil, false, err
		}
		if found {
			return existing, false, nil
		}
		if request.Options.TransferMode == models.TransferModeDataOnly {
			return nil, false, fmt.Errorf("data_only transfer needs an existing %q in the target environment", source.ResourceName())
		}
	}

	clone, err := e.resources.CloneInto(source, request.TargetEnvironmentID, request.TargetServerID, false)
	if err != nil {
		return nil, false, fmt.Errorf("creating target resource: %w", err)
	}
	return clone, true, nil
}

func (e *MigrationExecutor) copyVolumes(ctx context.Context, request *models.MigrationRequest, source, target models.Resource, artifacts *models.ArtifactList) error {
	sourceVolumes, err := e.volumes.FindByResource(request.ResourceKind, source.ResourceID())
	if err != nil {
		return fmt.Errorf("listing source volumes: %w", err)
	}

	for _, vol := range sourceVolumes {
		clone := vol
		clone.ID = ""
		clone.ResourceID = target.ResourceID()
		if vol.HostPath != "" {
			clone.HostPath = vol.HostPath + "-" + target.ResourceID()
		}

		clone, err := e.volumes.Create(clone)
		if err != nil {
			return fmt.Errorf("creating volume %q: %w", vol.Name, err)
		}
		*artifacts = append(*artifacts, models.Artifact{
			Kind: models.ArtifactKindVolume,
			ID:   clone.ID,
			Name: clone.Name,
		})

		if err := e.transfer.SyncVolume(ctx, vol, clone); err != nil {
			return fmt.Errorf("syncing volume %q: %w", vol.Name, err)
		}
	}
	return nil
}

// transferData streams database contents from source to target. The
// preparing → transferring move happens here, after record-level setup.
func (e *MigrationExecutor) transferData(ctx context.Context, request *models.MigrationRequest, source, target models.Resource) error {
	ok, err := e.transition(request, models.MigrationStatusPreparing, models.MigrationStatusTransferring, nil)
	if err != nil {
		return err
	}
	if !ok {
		// The request was cancelled while we were preparing.
		return fmt.Errorf("request left preparing state: %w", ErrConflict)
	}

	sourceDB, okSrc := source.(models.DatabaseInstance)
	targetDB, okDst := target.(models.DatabaseInstance)
	if !okSrc || !okDst {
		return fmt.Errorf("transfer requires database resources on both sides")
	}

	if !sourceDB.Engine.SupportsDump() {
		// Nothing to stream for cache engines; record-level clone is enough.
		return nil
	}

	// TODO: pass TransferOptions table filters down to the dump command for
	// partial mode; today partial behaves like a full clone.
	return e.transfer.DumpAndRestore(ctx, sourceDB, targetDB)
}

func (e *MigrationExecutor) markFailed(request *models.MigrationRequest, artifacts models.ArtifactList, cause error) {
	e.log.WithField("request", request.UUID).Errorf("execution failed: %v", cause)

	// Partial artifacts are recorded and left in place for inspection.
	ok, err := e.transition(request, request.Status, models.MigrationStatusFailed, map[string]interface{}{
		"error_message": cause.Error(),
		"artifacts":     artifacts,
	})
	if err != nil || !ok {
		e.log.Errorf("could not mark request %s failed: ok=%v err=%v", request.UUID, ok, err)
		e.persistArtifacts(request.ID, artifacts)
		return
	}

	e.notify.Notify(request.RequestedBy, request.TeamID, models.NotificationMigrationFailed,
		fmt.Sprintf("Migration of %s %q failed: %v", request.ResourceKind, request.ResourceName, cause))
}

// persistArtifacts records the snapshot outside the status CAS. When a
// cancel wins the terminal race the created objects still exist on the
// target side; the cancelled row must say so.
func (e *MigrationExecutor) persistArtifacts(requestID string, artifacts models.ArtifactList) {
	if len(artifacts) == 0 {
		return
	}

	fresh, err := e.migrations.FindByID(requestID)
	if err != nil {
		e.log.Errorf("cannot record artifacts for request %s: %v", requestID, err)
		return
	}
	fresh.Artifacts = artifacts
	if err := e.migrations.Update(fresh); err != nil {
		e.log.Errorf("cannot record artifacts for request %s: %v", requestID, err)
	}
}

func (e *MigrationExecutor) markCompleted(request *models.MigrationRequest, artifacts models.ArtifactList) {
	ok, err := e.transition(request, request.Status, models.MigrationStatusCompleted, map[string]interface{}{
		"artifacts": artifacts,
	})
	if err != nil || !ok {
		e.log.Errorf("could not mark request %s completed: ok=%v err=%v", request.UUID, ok, err)
		e.persistArtifacts(request.ID, artifacts)
		return
	}

	e.log.WithFields(logrus.Fields{
		"request":   request.UUID,
		"artifacts": len(artifacts),
	}).Info("migration completed")

	e.notify.Notify(request.RequestedBy, request.TeamID, models.NotificationMigrationDone,
		fmt.Sprintf("Migration of %s %q completed", request.ResourceKind, request.ResourceName))
}
