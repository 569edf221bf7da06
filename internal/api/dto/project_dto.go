package dto

import (
	"time"

	"github.com/spec-kit/portfolio-api/internal/domain"
)

// CreateProjectRequest payload.
type CreateProjectRequest struct {
	Title       string   `json:"title" validate:"required,min=1,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Tags        []string `json:"tags" validate:"max=20,dive,min=1,max=40"`
	RepoURL     string   `json:"repoUrl" validate:"omitempty,url"`
	DemoURL     string   `json:"demoUrl" validate:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Status      string   `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// UpdateProjectRequest payload with partial fields.
type UpdateProjectRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Tags        []string `json:"tags" validate:"omitempty,max=20,dive,min=1,max=40"`
	RepoURL     *string  `json:"repoUrl" validate:"omitempty,url"`
	DemoURL     *string  `json:"demoUrl" validate:"omitempty,url"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Status      *string  `json:"status" validate:"omitempty,oneof=DRAFT PUBLISHED ARCHIVED"`
}

// ProjectResponse is the project projection.
type ProjectResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	RepoURL     string    `json:"repoUrl,omitempty"`
	DemoURL     string    `json:"demoUrl,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewProjectResponse maps a domain project.
func NewProjectResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID,
		OwnerID:     project.OwnerID,
		Title:       project.Title,
		Description: project.Description,
		Tags:        project.Tags,
		RepoURL:     project.RepoURL,
		DemoURL:     project.DemoURL,
		ImageURL:    project.ImageURL,
		Status:      string(project.Status),
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// NewProjectResponses maps a slice.
func NewProjectResponses(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for i := range projects {
		out = append(out, NewProjectResponse(&projects[i]))
	}
	return out
}
