package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// In-memory fakes of the store interfaces. Each test seeds only the rows it
// needs; lookups that miss return gorm.ErrRecordNotFound like the real
// repositories do.

type fakeMigrationStore struct {
	mu       sync.Mutex
	requests map[string]models.MigrationRequest
	order    []string
	seq      int

	// onTransition runs before a TransitionStatus applies, so tests can
	// race a concurrent status change against it
	onTransition func(id string, from, to models.MigrationStatus)
	// afterFindActive runs once a FindActive lookup has finished, so tests
	// can hold two creators between their lookup and their insert
	afterFindActive func()
}

func newFakeMigrationStore() *fakeMigrationStore {
	return &fakeMigrationStore{requests: map[string]models.MigrationRequest{}}
}

func (f *fakeMigrationStore) seed(request models.MigrationRequest) models.MigrationRequest {
	created, _ := f.Create(request)
	return created
}

func (f *fakeMigrationStore) Create(request models.MigrationRequest) (models.MigrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Mirror the partial unique index: one active request per
	// (resource kind, resource, target environment).
	if !request.Status.IsTerminal() {
		for _, id := range f.order {
			existing := f.requests[id]
			if existing.ResourceKind == request.ResourceKind &&
				existing.ResourceID == request.ResourceID &&
				existing.TargetEnvironmentID == request.TargetEnvironmentID &&
				!existing.Status.IsTerminal() {
				return models.MigrationRequest{}, gorm.ErrDuplicatedKey
			}
		}
	}

	if request.ID == "" {
		f.seq++
		request.ID = fmt.Sprintf("req-%d", f.seq)
	}
	f.requests[request.ID] = request
	f.order = append(f.order, request.ID)
	return request, nil
}

func (f *fakeMigrationStore) FindByUUID(uuid string, teamID string) (models.MigrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		req := f.requests[id]
		if req.UUID == uuid && req.TeamID == teamID {
			return req, nil
		}
	}
	return models.MigrationRequest{}, gorm.ErrRecordNotFound
}

func (f *fakeMigrationStore) FindByID(id string) (models.MigrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok {
		return req, gorm.ErrRecordNotFound
	}
	return req, nil
}

func (f *fakeMigrationStore) ListByTeam(teamID string, status models.MigrationStatus) ([]models.MigrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MigrationRequest{}
	for _, id := range f.order {
		req := f.requests[id]
		if req.TeamID != teamID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeMigrationStore) ListPendingApproval(teamID string) ([]models.MigrationRequest, error) {
	return f.ListByTeam(teamID, models.MigrationStatusPendingApproval)
}

func (f *fakeMigrationStore) FindActive(kind models.ResourceKind, resourceID, targetEnvironmentID string) (models.MigrationRequest, bool, error) {
	f.mu.Lock()
	var found models.MigrationRequest
	exists := false
	for _, id := range f.order {
		req := f.requests[id]
		if req.ResourceKind == kind && req.ResourceID == resourceID &&
			req.TargetEnvironmentID == targetEnvironmentID && !req.Status.IsTerminal() {
			found = req
			exists = true
			break
		}
	}
	f.mu.Unlock()

	if f.afterFindActive != nil {
		f.afterFindActive()
	}
	return found, exists, nil
}

func (f *fakeMigrationStore) ListByStatus(status models.MigrationStatus) ([]models.MigrationRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.MigrationRequest{}
	for _, id := range f.order {
		if f.requests[id].Status == status {
			out = append(out, f.requests[id])
		}
	}
	return out, nil
}

func (f *fakeMigrationStore) ActiveTargetEnvironmentIDs(kind models.ResourceKind, resourceID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []string{}
	for _, id := range f.order {
		req := f.requests[id]
		if req.ResourceKind == kind && req.ResourceID == resourceID && !req.Status.IsTerminal() {
			out = append(out, req.TargetEnvironmentID)
		}
	}
	return out, nil
}

func (f *fakeMigrationStore) TransitionStatus(id string, from, to models.MigrationStatus, updates map[string]interface{}) (bool, error) {
	if f.onTransition != nil {
		f.onTransition(id, from, to)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[id]
	if !ok || req.Status != from {
		return false, nil
	}

	req.Status = to
	for key, value := range updates {
		switch key {
		case "history":
			req.History = value.(models.History)
		case "artifacts":
			req.Artifacts = value.(models.ArtifactList)
		case "approved_by":
			approver := value.(string)
			req.ApprovedBy = &approver
		case "approval_comment":
			req.ApprovalComment = value.(string)
		case "rejection_reason":
			req.RejectionReason = value.(string)
		case "error_message":
			req.ErrorMessage = value.(string)
		}
	}
	f.requests[id] = req
	return true, nil
}

func (f *fakeMigrationStore) Update(request models.MigrationRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[request.ID] = request
	return nil
}

func (f *fakeMigrationStore) get(id string) models.MigrationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[id]
}

type fakeEnvironmentStore struct {
	environments map[string]models.Environment
}

func newFakeEnvironmentStore(environments ...models.Environment) *fakeEnvironmentStore {
	f := &fakeEnvironmentStore{environments: map[string]models.Environment{}}
	for _, env := range environments {
		f.environments[env.ID] = env
	}
	return f
}

func (f *fakeEnvironmentStore) FindByID(id string, teamID string) (models.Environment, error) {
	env, ok := f.environments[id]
	if !ok || env.TeamID != teamID {
		return models.Environment{}, gorm.ErrRecordNotFound
	}
	return env, nil
}

func (f *fakeEnvironmentStore) FindByProjectID(projectID string) ([]models.Environment, error) {
	out := []models.Environment{}
	// Stable creation order matters for target listings.
	for _, env := range sortedEnvironments(f.environments) {
		if env.ProjectID == projectID {
			out = append(out, env)
		}
	}
	return out, nil
}

func sortedEnvironments(envs map[string]models.Environment) []models.Environment {
	out := make([]models.Environment, 0, len(envs))
	for _, env := range envs {
		out = append(out, env)
	}
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.Before(out[i].CreatedAt) ||
				(out[j].CreatedAt.Equal(out[i].CreatedAt) && out[j].ID < out[i].ID) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

type fakeServerStore struct {
	servers map[string]models.Server
}

func (f *fakeServerStore) FindByID(id string, teamID string) (models.Server, error) {
	server, ok := f.servers[id]
	if !ok || server.TeamID != teamID {
		return models.Server{}, gorm.ErrRecordNotFound
	}
	return server, nil
}

type fakeTeamStore struct {
	team    models.Team
	members map[string]models.TeamMember // by user ID
}

func (f *fakeTeamStore) FindByID(id string) (models.Team, error) {
	if f.team.ID != id {
		return models.Team{}, gorm.ErrRecordNotFound
	}
	return f.team, nil
}

func (f *fakeTeamStore) FindMember(teamID string, userID string) (models.TeamMember, error) {
	member, ok := f.members[userID]
	if !ok || member.TeamID != teamID {
		return models.TeamMember{}, gorm.ErrRecordNotFound
	}
	return member, nil
}

func (f *fakeTeamStore) ListMembersWithRoleAtLeast(teamID string, role models.TeamRole) ([]models.TeamMember, error) {
	out := []models.TeamMember{}
	for _, member := range f.members {
		if member.TeamID == teamID && member.Role.AtLeast(role) {
			out = append(out, member)
		}
	}
	return out, nil
}

func resourceKey(kind models.ResourceKind, id string) string {
	return string(kind) + "/" + id
}

type fakeResourceStore struct {
	resources map[string]models.Resource
	statuses  map[string]string
	envVars   map[string]models.EnvVars
	cleared   []string
	deleted   []string
	cloneSeq  int

	setEnvVarsErr error
}

func newFakeResourceStore(resources ...models.Resource) *fakeResourceStore {
	f := &fakeResourceStore{
		resources: map[string]models.Resource{},
		statuses:  map[string]string{},
		envVars:   map[string]models.EnvVars{},
	}
	for _, res := range resources {
		f.resources[resourceKey(res.Kind(), res.ResourceID())] = res
	}
	return f
}

func (f *fakeResourceStore) Find(kind models.ResourceKind, id string, teamID string) (models.Resource, error) {
	res, ok := f.resources[resourceKey(kind, id)]
	if !ok || res.ResourceTeamID() != teamID {
		return nil, gorm.ErrRecordNotFound
	}
	return res, nil
}

func (f *fakeResourceStore) FindDatabase(id string, teamID string) (models.DatabaseInstance, error) {
	res, err := f.Find(models.ResourceKindDatabase, id, teamID)
	if err != nil {
		return models.DatabaseInstance{}, err
	}
	return res.(models.DatabaseInstance), nil
}

func (f *fakeResourceStore) CloneInto(source models.Resource, targetEnvironmentID, targetServerID string, copyEnvVars bool) (models.Resource, error) {
	f.cloneSeq++
	id := fmt.Sprintf("clone-%d", f.cloneSeq)

	var clone models.Resource
	switch src := source.(type) {
	case models.Application:
		c := src
		c.ID = id
		c.EnvironmentID = targetEnvironmentID
		c.ServerID = targetServerID
		c.Status = "inactive"
		if !copyEnvVars {
			c.EnvVars = models.EnvVars{}
		}
		clone = c
	case models.Service:
		c := src
		c.ID = id
		c.EnvironmentID = targetEnvironmentID
		c.ServerID = targetServerID
		c.Status = "inactive"
		if !copyEnvVars {
			c.EnvVars = models.EnvVars{}
		}
		clone = c
	case models.DatabaseInstance:
		c := src
		c.ID = id
		c.EnvironmentID = targetEnvironmentID
		c.ServerID = targetServerID
		c.Status = "inactive"
		if !copyEnvVars {
			c.EnvVars = models.EnvVars{}
		}
		clone = c
	default:
		return nil, fmt.Errorf("unknown resource type %T", source)
	}

	f.resources[resourceKey(clone.Kind(), id)] = clone
	return clone, nil
}

func (f *fakeResourceStore) FindByNameInEnvironment(kind models.ResourceKind, name, environmentID string) (models.Resource, bool, error) {
	for _, res := range f.resources {
		if res.Kind() == kind && res.ResourceName() == name && res.ResourceEnvironmentID() == environmentID {
			return res, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeResourceStore) SetStatus(kind models.ResourceKind, id string, status string) error {
	f.statuses[resourceKey(kind, id)] = status
	return nil
}

func (f *fakeResourceStore) SetEnvVars(kind models.ResourceKind, id string, vars models.EnvVars) error {
	if f.setEnvVarsErr != nil {
		return f.setEnvVarsErr
	}
	f.envVars[resourceKey(kind, id)] = vars
	return nil
}

func (f *fakeResourceStore) ClearEnvVars(kind models.ResourceKind, id string) error {
	f.cleared = append(f.cleared, resourceKey(kind, id))
	return nil
}

func (f *fakeResourceStore) Delete(kind models.ResourceKind, id string) error {
	f.deleted = append(f.deleted, resourceKey(kind, id))
	delete(f.resources, resourceKey(kind, id))
	return nil
}

type fakeVolumeStore struct {
	volumes map[string]models.Volume
	order   []string
	deleted []string
	seq     int

	findErr error
}

func newFakeVolumeStore(volumes ...models.Volume) *fakeVolumeStore {
	f := &fakeVolumeStore{volumes: map[string]models.Volume{}}
	for _, vol := range volumes {
		f.volumes[vol.ID] = vol
		f.order = append(f.order, vol.ID)
	}
	return f
}

func (f *fakeVolumeStore) FindByResource(kind models.ResourceKind, resourceID string) ([]models.Volume, error) {
	out := []models.Volume{}
	for _, id := range f.order {
		vol := f.volumes[id]
		if vol.ResourceKind == kind && vol.ResourceID == resourceID {
			out = append(out, vol)
		}
	}
	return out, nil
}

func (f *fakeVolumeStore) FindByID(id string) (models.Volume, error) {
	if f.findErr != nil {
		return models.Volume{}, f.findErr
	}
	vol, ok := f.volumes[id]
	if !ok {
		return vol, gorm.ErrRecordNotFound
	}
	return vol, nil
}

func (f *fakeVolumeStore) Create(volume models.Volume) (models.Volume, error) {
	if volume.ID == "" {
		f.seq++
		volume.ID = fmt.Sprintf("vol-%d", f.seq)
	}
	f.volumes[volume.ID] = volume
	f.order = append(f.order, volume.ID)
	return volume, nil
}

func (f *fakeVolumeStore) Delete(id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.volumes, id)
	return nil
}

type sentNotification struct {
	UserID  string
	Kind    models.NotificationType
	Message string
}

type fakeNotifier struct {
	sent []sentNotification
}

func (f *fakeNotifier) Notify(userID, teamID string, kind models.NotificationType, message string) {
	f.sent = append(f.sent, sentNotification{UserID: userID, Kind: kind, Message: message})
}

type fakeEnqueuer struct {
	enqueued []string
	err      error
}

func (f *fakeEnqueuer) EnqueueExecution(requestID string) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, requestID)
	return nil
}

type runnerCall struct {
	op     string
	source string
	target string
}

type fakeRunner struct {
	calls []runnerCall

	dumpErr   error
	syncErr   error
	removeErr error
}

func (f *fakeRunner) DumpAndRestore(ctx context.Context, source, target models.DatabaseInstance) error {
	f.calls = append(f.calls, runnerCall{op: "dump", source: source.ID, target: target.ID})
	return f.dumpErr
}

func (f *fakeRunner) SyncVolume(ctx context.Context, source, target models.Volume) error {
	f.calls = append(f.calls, runnerCall{op: "sync", source: source.ID, target: target.ID})
	return f.syncErr
}

func (f *fakeRunner) RemoveVolumeData(ctx context.Context, volume models.Volume) error {
	f.calls = append(f.calls, runnerCall{op: "remove", source: volume.ID})
	return f.removeErr
}
