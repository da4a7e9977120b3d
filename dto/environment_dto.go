package dto

import (
	"time"

	"github.com/kpizzy812/saturn-platform-sub000/models"
)

// EnvironmentRequest is the structure for environment creation/update requests
type EnvironmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Type        string `json:"type"`
	ProjectID   string `json:"projectId"`
}

// EnvironmentResponse is the structure for environment responses
type EnvironmentResponse struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        models.EnvironmentType `json:"type"`
	ProjectID   string                 `json:"projectId"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// NewEnvironmentResponse converts a model into the API shape
func NewEnvironmentResponse(env models.Environment) EnvironmentResponse {
	return EnvironmentResponse{
		ID:          env.ID,
		Name:        env.Name,
		Description: env.Description,
		Type:        env.Type,
		ProjectID:   env.ProjectID,
		CreatedAt:   env.CreatedAt,
		UpdatedAt:   env.UpdatedAt,
	}
}

// EnvironmentListResponse wraps a list of environments
type EnvironmentListResponse struct {
	Environments []EnvironmentResponse `json:"environments"`
}
