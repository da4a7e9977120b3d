package repositories

import (
	"github.com/kpizzy812/saturn-platform-sub000/database"
	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// TeamRepository handles database operations for teams and memberships
type TeamRepository struct{}

// NewTeamRepository creates a new team repository instance
func NewTeamRepository() *TeamRepository {
	return &TeamRepository{}
}

// FindByID retrieves a team by its ID
func (r *TeamRepository) FindByID(id string) (models.Team, error) {
	var team models.Team
	result := database.DB.First(&team, "id = ?", id)
	return team, result.Error
}

// Create inserts a new team
func (r *TeamRepository) Create(team models.Team) (models.Team, error) {
	result := database.DB.Create(&team)
	return team, result.Error
}

// FindMember retrieves a user's membership in a team
func (r *TeamRepository) FindMember(teamID string, userID string) (models.TeamMember, error) {
	var member models.TeamMember
	result := database.DB.First(&member, "team_id = ? AND user_id = ?", teamID, userID)
	return member, result.Error
}

// AddMember inserts a new team membership
func (r *TeamRepository) AddMember(member models.TeamMember) (models.TeamMember, error) {
	result := database.DB.Create(&member)
	return member, result.Error
}

// ListMembersWithRoleAtLeast returns user IDs of members holding at least
// the given role, used to fan out approval notifications
func (r *TeamRepository) ListMembersWithRoleAtLeast(teamID string, role models.TeamRole) ([]models.TeamMember, error) {
	var members []models.TeamMember
	result := database.DB.Where("team_id = ?", teamID).Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}

	filtered := make([]models.TeamMember, 0, len(members))
	for _, m := range members {
		if m.Role.AtLeast(role) {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}
