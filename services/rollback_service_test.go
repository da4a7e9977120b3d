package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

type rollbackFixture struct {
	service    *RollbackService
	migrations *fakeMigrationStore
	resources  *fakeResourceStore
	volumes    *fakeVolumeStore
	runner     *fakeRunner
}

func newRollbackFixture() *rollbackFixture {
	migrations := newFakeMigrationStore()
	resources := newFakeResourceStore(
		models.Application{ID: "clone-1", Name: "web", TeamID: testTeam, EnvironmentID: envStaging},
	)
	volumes := newFakeVolumeStore(
		models.Volume{ID: "vol-1", Name: "data", TeamID: testTeam, ResourceKind: models.ResourceKindApplication, ResourceID: "clone-1", MountPath: "/data", HostPath: "/srv/data-clone-1"},
	)
	runner := &fakeRunner{}

	teams := &fakeTeamStore{
		team: models.Team{ID: testTeam},
		members: map[string]models.TeamMember{
			userAdmin:  {TeamID: testTeam, UserID: userAdmin, Role: models.TeamRoleAdmin},
			userMember: {TeamID: testTeam, UserID: userMember, Role: models.TeamRoleMember},
		},
	}

	return &rollbackFixture{
		service: &RollbackService{
			migrations: migrations,
			resources:  resources,
			volumes:    volumes,
			teams:      teams,
			transfer:   runner,
			log:        logrus.WithField("component", "rollback"),
		},
		migrations: migrations,
		resources:  resources,
		volumes:    volumes,
		runner:     runner,
	}
}

func completedRequest() models.MigrationRequest {
	return models.MigrationRequest{
		UUID:                "uuid-done",
		TeamID:              testTeam,
		Kind:                models.RequestKindMigration,
		ResourceKind:        models.ResourceKindApplication,
		ResourceID:          appID,
		ResourceName:        "web",
		SourceEnvironmentID: envDev,
		TargetEnvironmentID: envStaging,
		Status:              models.MigrationStatusCompleted,
		RequestedBy:         userMember,
		Artifacts: models.ArtifactList{
			{Kind: models.ResourceKindApplication, ID: "clone-1", Name: "web"},
			{Kind: models.ArtifactKindEnvVars, ID: "clone-1", OfKind: models.ResourceKindApplication},
			{Kind: models.ArtifactKindVolume, ID: "vol-1", Name: "data"},
		},
	}
}

func TestRollbackReversesArtifactsLastToFirst(t *testing.T) {
	f := newRollbackFixture()
	request := f.migrations.seed(completedRequest())

	result, err := f.service.Rollback(context.Background(), testTeam, userAdmin, request.UUID)
	require.NoError(t, err)

	assert.Empty(t, result.Artifacts)
	require.NotNil(t, result.RolledBackAt)

	// Volume data removed before its row; clone stopped before deletion.
	require.Len(t, f.runner.calls, 1)
	assert.Equal(t, "remove", f.runner.calls[0].op)
	assert.Equal(t, "vol-1", f.runner.calls[0].source)
	assert.Equal(t, []string{"vol-1"}, f.volumes.deleted)
	assert.Equal(t, []string{resourceKey(models.ResourceKindApplication, "clone-1")}, f.resources.cleared)
	assert.Equal(t, "inactive", f.resources.statuses[resourceKey(models.ResourceKindApplication, "clone-1")])
	assert.Equal(t, []string{resourceKey(models.ResourceKindApplication, "clone-1")}, f.resources.deleted)

	stored := f.migrations.get(request.ID)
	assert.Equal(t, models.MigrationStatusCompleted, stored.Status)
	require.NotEmpty(t, stored.History)
	assert.Equal(t, "rolled back", stored.History[len(stored.History)-1].Note)
}

func TestRollbackRequiresApproverRole(t *testing.T) {
	f := newRollbackFixture()
	request := f.migrations.seed(completedRequest())

	_, err := f.service.Rollback(context.Background(), testTeam, userMember, request.UUID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.runner.calls)
}

func TestRollbackOnlyCompletedRequests(t *testing.T) {
	f := newRollbackFixture()
	request := completedRequest()
	request.Status = models.MigrationStatusFailed
	seeded := f.migrations.seed(request)

	_, err := f.service.Rollback(context.Background(), testTeam, userAdmin, seeded.UUID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRollbackTwiceConflicts(t *testing.T) {
	f := newRollbackFixture()
	request := completedRequest()
	already := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	request.RolledBackAt = &already
	seeded := f.migrations.seed(request)

	_, err := f.service.Rollback(context.Background(), testTeam, userAdmin, seeded.UUID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRollbackWithoutSnapshotConflicts(t *testing.T) {
	f := newRollbackFixture()
	request := completedRequest()
	request.Artifacts = models.ArtifactList{}
	seeded := f.migrations.seed(request)

	_, err := f.service.Rollback(context.Background(), testTeam, userAdmin, seeded.UUID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRollbackPartialFailureKeepsRemainingArtifacts(t *testing.T) {
	f := newRollbackFixture()
	f.runner.removeErr = errors.New("host unreachable")
	request := f.migrations.seed(completedRequest())

	_, err := f.service.Rollback(context.Background(), testTeam, userAdmin, request.UUID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "host unreachable")

	// The volume failed first, so nothing was undone yet.
	stored := f.migrations.get(request.ID)
	assert.Len(t, stored.Artifacts, 3)
	assert.Nil(t, stored.RolledBackAt)
	assert.Empty(t, f.volumes.deleted)
	assert.Empty(t, f.resources.deleted)
	require.NotEmpty(t, stored.History)
	assert.Contains(t, stored.History[len(stored.History)-1].Note, "rollback stopped")
}

func TestRollbackResumesAfterPartialFailure(t *testing.T) {
	f := newRollbackFixture()
	f.runner.removeErr = errors.New("host unreachable")
	request := f.migrations.seed(completedRequest())

	_, err := f.service.Rollback(context.Background(), testTeam, userAdmin, request.UUID)
	require.Error(t, err)

	f.runner.removeErr = nil
	result, err := f.service.Rollback(context.Background(), testTeam, userAdmin, request.UUID)
	require.NoError(t, err)
	assert.Empty(t, result.Artifacts)
	assert.NotNil(t, result.RolledBackAt)
}
