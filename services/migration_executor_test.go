package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpizzy812/saturn-platform-sub000/lib/queue"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

type executorFixture struct {
	executor   *MigrationExecutor
	migrations *fakeMigrationStore
	resources  *fakeResourceStore
	volumes    *fakeVolumeStore
	runner     *fakeRunner
	notifier   *fakeNotifier
}

func newExecutorFixture(resources *fakeResourceStore, volumes *fakeVolumeStore) *executorFixture {
	migrations := newFakeMigrationStore()
	runner := &fakeRunner{}
	notifier := &fakeNotifier{}

	return &executorFixture{
		executor: &MigrationExecutor{
			migrations: migrations,
			resources:  resources,
			volumes:    volumes,
			transfer:   runner,
			notify:     notifier,
			log:        logrus.WithField("component", "executor"),
		},
		migrations: migrations,
		resources:  resources,
		volumes:    volumes,
		runner:     runner,
		notifier:   notifier,
	}
}

func queuedMigration(options models.MigrationOptions) models.MigrationRequest {
	return models.MigrationRequest{
		UUID:                "uuid-run",
		TeamID:              testTeam,
		Kind:                models.RequestKindMigration,
		ResourceKind:        models.ResourceKindApplication,
		ResourceID:          appID,
		ResourceName:        "web",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusQueued,
		RequestedBy:         userMember,
		Options:             options,
	}
}

func TestRunClonesResourceEnvVarsAndVolumes(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev, EnvVars: models.EnvVars{"KEY": "value"}},
	)
	volumes := newFakeVolumeStore(
		models.Volume{ID: "vol-src", Name: "data", TeamID: testTeam, ResourceKind: models.ResourceKindApplication, ResourceID: appID, MountPath: "/data", HostPath: "/srv/data"},
	)
	f := newExecutorFixture(resources, volumes)

	request := f.migrations.seed(queuedMigration(models.MigrationOptions{CopyEnvVars: true, CopyVolumes: true}))

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)

	require.Len(t, stored.Artifacts, 3)
	assert.Equal(t, models.ResourceKindApplication, stored.Artifacts[0].Kind)
	assert.Equal(t, models.ArtifactKindEnvVars, stored.Artifacts[1].Kind)
	assert.Equal(t, models.ResourceKindApplication, stored.Artifacts[1].OfKind)
	assert.Equal(t, models.ArtifactKindVolume, stored.Artifacts[2].Kind)

	cloneID := stored.Artifacts[0].ID
	assert.Equal(t, models.EnvVars{"KEY": "value"}, resources.envVars[resourceKey(models.ResourceKindApplication, cloneID)])
	assert.Equal(t, "inactive", resources.statuses[resourceKey(models.ResourceKindApplication, cloneID)])

	// Cloned volume got a distinct host path and its contents synced.
	cloned := volumes.volumes[stored.Artifacts[2].ID]
	assert.Equal(t, cloneID, cloned.ResourceID)
	assert.Equal(t, "/srv/data-"+cloneID, cloned.HostPath)
	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "sync", f.runner.calls[0].op)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, models.NotificationMigrationDone, f.notifier.sent[0].Kind)
}

func TestRunConfigOnlyStopsAfterClone(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev, EnvVars: models.EnvVars{"KEY": "value"}},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(queuedMigration(models.MigrationOptions{ConfigOnly: true, CopyEnvVars: true, CopyVolumes: true}))

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)
	require.Len(t, stored.Artifacts, 1)
	assert.Empty(t, resources.envVars)
	assert.Empty(t, f.runner.calls)
}

func TestRunUpdateExistingReusesTarget(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev, EnvVars: models.EnvVars{"KEY": "value"}},
		models.Application{ID: "app-existing", Name: "web", TeamID: testTeam, EnvironmentID: envStaging},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(queuedMigration(models.MigrationOptions{UpdateExisting: true, CopyEnvVars: true}))

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)

	// Reused target is not an artifact: rollback must not delete it.
	require.Len(t, stored.Artifacts, 1)
	assert.Equal(t, models.ArtifactKindEnvVars, stored.Artifacts[0].Kind)
	assert.Equal(t, "app-existing", stored.Artifacts[0].ID)
	assert.Equal(t, 0, resources.cloneSeq)
}

func TestRunDuplicateDispatchIsSuppressed(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := queuedMigration(models.MigrationOptions{})
	request.Status = models.MigrationStatusExecuting
	seeded := f.migrations.seed(request)

	f.executor.Run(context.Background(), seeded.ID)

	stored := f.migrations.get(seeded.ID)
	assert.Equal(t, models.MigrationStatusExecuting, stored.Status)
	assert.Equal(t, 0, resources.cloneSeq)
	assert.Empty(t, f.notifier.sent)
}

func TestRunFailureRecordsPartialArtifacts(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev},
	)
	volumes := newFakeVolumeStore(
		models.Volume{ID: "vol-src", Name: "data", TeamID: testTeam, ResourceKind: models.ResourceKindApplication, ResourceID: appID, MountPath: "/data", HostPath: "/srv/data"},
	)
	f := newExecutorFixture(resources, volumes)
	f.runner.syncErr = errors.New("rsync exploded")

	request := f.migrations.seed(queuedMigration(models.MigrationOptions{CopyVolumes: true}))

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "rsync exploded")

	// Clone and volume row exist; both are recorded for later cleanup.
	require.Len(t, stored.Artifacts, 2)
	assert.Equal(t, models.ResourceKindApplication, stored.Artifacts[0].Kind)
	assert.Equal(t, models.ArtifactKindVolume, stored.Artifacts[1].Kind)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, models.NotificationMigrationFailed, f.notifier.sent[0].Kind)
}

func TestRunTransferDumpsAndRestores(t *testing.T) {
	resources := newFakeResourceStore(
		models.DatabaseInstance{ID: dbID, Name: "main-db", TeamID: testTeam, EnvironmentID: envDev, Engine: models.DatabaseEnginePostgreSQL, DatabaseName: "main"},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(models.MigrationRequest{
		UUID:                "uuid-transfer",
		TeamID:              testTeam,
		Kind:                models.RequestKindTransfer,
		ResourceKind:        models.ResourceKindDatabase,
		ResourceID:          dbID,
		ResourceName:        "main-db",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusQueued,
		RequestedBy:         userMember,
		Options:             models.MigrationOptions{TransferMode: models.TransferModeClone},
	})

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)

	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "dump", f.runner.calls[0].op)
	assert.Equal(t, dbID, f.runner.calls[0].source)

	// Transfers pass through preparing and transferring.
	statuses := []models.MigrationStatus{}
	for _, entry := range stored.History {
		statuses = append(statuses, entry.To)
	}
	assert.Equal(t, []models.MigrationStatus{
		models.MigrationStatusPreparing,
		models.MigrationStatusTransferring,
		models.MigrationStatusCompleted,
	}, statuses)
}

func TestRunTransferDataOnlyNeedsExistingTarget(t *testing.T) {
	resources := newFakeResourceStore(
		models.DatabaseInstance{ID: dbID, Name: "main-db", TeamID: testTeam, EnvironmentID: envDev, Engine: models.DatabaseEnginePostgreSQL},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(models.MigrationRequest{
		UUID:                "uuid-dataonly",
		TeamID:              testTeam,
		Kind:                models.RequestKindTransfer,
		ResourceKind:        models.ResourceKindDatabase,
		ResourceID:          dbID,
		ResourceName:        "main-db",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusQueued,
		RequestedBy:         userMember,
		Options:             models.MigrationOptions{TransferMode: models.TransferModeDataOnly},
	})

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorMessage, "data_only")
	assert.Empty(t, f.runner.calls)
}

func TestRunTransferCancelledDuringPreparing(t *testing.T) {
	resources := newFakeResourceStore(
		models.DatabaseInstance{ID: dbID, Name: "main-db", TeamID: testTeam, EnvironmentID: envDev, Engine: models.DatabaseEnginePostgreSQL},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(models.MigrationRequest{
		UUID:                "uuid-cancelrace",
		TeamID:              testTeam,
		Kind:                models.RequestKindTransfer,
		ResourceKind:        models.ResourceKindDatabase,
		ResourceID:          dbID,
		ResourceName:        "main-db",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusQueued,
		RequestedBy:         userMember,
		Options:             models.MigrationOptions{TransferMode: models.TransferModeClone},
	})

	// A cancel lands between preparing and transferring.
	f.migrations.onTransition = func(id string, from, to models.MigrationStatus) {
		if from == models.MigrationStatusPreparing && to == models.MigrationStatusTransferring {
			f.migrations.mu.Lock()
			req := f.migrations.requests[id]
			req.Status = models.MigrationStatusCancelled
			f.migrations.requests[id] = req
			f.migrations.mu.Unlock()
		}
	}

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCancelled, stored.Status)
	assert.Empty(t, f.runner.calls)

	// The clone created during preparing outlives the cancel; the request
	// must record it even though the cancel won the terminal race.
	require.Len(t, stored.Artifacts, 1)
	assert.Equal(t, models.ResourceKindDatabase, stored.Artifacts[0].Kind)
	assert.Equal(t, "clone-1", stored.Artifacts[0].ID)
}

func TestResumeQueuedDispatchesStrandedRequests(t *testing.T) {
	resources := newFakeResourceStore(
		models.Application{ID: appID, Name: "web", TeamID: testTeam, EnvironmentID: envDev},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	q := queue.New(1, 4)
	q.Start(context.Background())
	defer q.Shutdown()
	f.executor.queue = q

	// A row stuck in queued, as left behind by a restart mid-dispatch.
	request := f.migrations.seed(queuedMigration(models.MigrationOptions{}))

	require.NoError(t, f.executor.ResumeQueued())

	require.Eventually(t, func() bool {
		return f.migrations.get(request.ID).Status == models.MigrationStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRunRedisTransferSkipsDump(t *testing.T) {
	resources := newFakeResourceStore(
		models.DatabaseInstance{ID: dbID, Name: "cache", TeamID: testTeam, EnvironmentID: envDev, Engine: models.DatabaseEngineRedis},
	)
	f := newExecutorFixture(resources, newFakeVolumeStore())

	request := f.migrations.seed(models.MigrationRequest{
		UUID:                "uuid-redis",
		TeamID:              testTeam,
		Kind:                models.RequestKindTransfer,
		ResourceKind:        models.ResourceKindDatabase,
		ResourceID:          dbID,
		ResourceName:        "cache",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusQueued,
		RequestedBy:         userMember,
		Options:             models.MigrationOptions{TransferMode: models.TransferModeClone},
	})

	f.executor.Run(context.Background(), request.ID)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)
	assert.Empty(t, f.runner.calls)
}
