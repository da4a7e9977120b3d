package models

// Resource is the common view over the three migratable resource kinds.
// The migration factory and executor work against this interface plus one
// dispatch table in the resource repository, instead of type-casing.
type Resource interface {
	ResourceID() string
	ResourceName() string
	Kind() ResourceKind
	ResourceEnvironmentID() string
	ResourceTeamID() string
	ResourceEnvVars() EnvVars
}

func (a Application) ResourceID() string            { return a.ID }
func (a Application) ResourceName() string          { return a.Name }
func (a Application) Kind() ResourceKind            { return ResourceKindApplication }
func (a Application) ResourceEnvironmentID() string { return a.EnvironmentID }
func (a Application) ResourceTeamID() string        { return a.TeamID }
func (a Application) ResourceEnvVars() EnvVars      { return a.EnvVars }

func (s Service) ResourceID() string            { return s.ID }
func (s Service) ResourceName() string          { return s.Name }
func (s Service) Kind() ResourceKind            { return ResourceKindService }
func (s Service) ResourceEnvironmentID() string { return s.EnvironmentID }
func (s Service) ResourceTeamID() string        { return s.TeamID }
func (s Service) ResourceEnvVars() EnvVars      { return s.EnvVars }

func (d DatabaseInstance) ResourceID() string            { return d.ID }
func (d DatabaseInstance) ResourceName() string          { return d.Name }
func (d DatabaseInstance) Kind() ResourceKind            { return ResourceKindDatabase }
func (d DatabaseInstance) ResourceEnvironmentID() string { return d.EnvironmentID }
func (d DatabaseInstance) ResourceTeamID() string        { return d.TeamID }
func (d DatabaseInstance) ResourceEnvVars() EnvVars      { return d.EnvVars }

// ValidResourceKind checks an incoming kind string
func ValidResourceKind(kind string) bool {
	switch ResourceKind(kind) {
	case ResourceKindApplication, ResourceKindService, ResourceKindDatabase:
		return true
	}
	return false
}
