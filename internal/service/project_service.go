package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/repository"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// ProjectCreateInput describes project creation payload.
type ProjectCreateInput struct {
	Title       string
	Description string
	Tags        []string
	RepoURL     string
	DemoURL     string
	ImageURL    string
	Status      domain.ProjectStatus
}

// ProjectUpdateInput carries partial updates.
type ProjectUpdateInput struct {
	Title       *string
	Description *string
	Tags        []string
	RepoURL     *string
	DemoURL     *string
	ImageURL    *string
	Status      *domain.ProjectStatus
}

// ProjectListFilter narrows listings for callers.
type ProjectListFilter struct {
	OwnerID       *string
	Tag           *string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// ProjectService coordinates portfolio project CRUD.
type ProjectService struct {
	projects repository.ProjectRepository
}

// NewProjectService constructs the service.
func NewProjectService(projects repository.ProjectRepository) *ProjectService {
	return &ProjectService{projects: projects}
}

// Create stores a new project for the owner.
func (s *ProjectService) Create(ctx context.Context, ownerID string, input ProjectCreateInput) (*domain.Project, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}

	status := input.Status
	if status == "" {
		status = domain.ProjectStatusDraft
	}

	project := &domain.Project{
		OwnerID:     ownerID,
		Title:       title,
		Description: input.Description,
		Tags:        input.Tags,
		RepoURL:     input.RepoURL,
		DemoURL:     input.DemoURL,
		ImageURL:    input.ImageURL,
		Status:      status,
	}
	if project.Tags == nil {
		project.Tags = []string{}
	}

	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return project, nil
}

// Get loads one project.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return project, nil
}

// Update applies partial updates.
func (s *ProjectService) Update(ctx context.Context, id string, input ProjectUpdateInput) (*domain.Project, error) {
	project, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title required", nil)
		}
		project.Title = title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.Tags != nil {
		project.Tags = input.Tags
	}
	if input.RepoURL != nil {
		project.RepoURL = *input.RepoURL
	}
	if input.DemoURL != nil {
		project.DemoURL = *input.DemoURL
	}
	if input.ImageURL != nil {
		project.ImageURL = *input.ImageURL
	}
	if input.Status != nil {
		project.Status = *input.Status
	}

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return project, nil
}

// Delete removes a project.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.projects.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return apperrors.NewInternalError(err)
	}
	return nil
}

// List returns a page of projects plus the total count.
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) ([]domain.Project, int64, error) {
	repoFilter := repository.ProjectFilter{
		OwnerID: filter.OwnerID,
		Tag:     filter.Tag,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	}
	if filter.PublishedOnly {
		repoFilter.Statuses = []domain.ProjectStatus{domain.ProjectStatusPublished}
	}

	projects, total, err := s.projects.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, apperrors.NewInternalError(err)
	}
	return projects, total, nil
}
