package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/repository"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// memProjectRepo is an in-memory repository.ProjectRepository.
type memProjectRepo struct {
	mu   sync.Mutex
	seq  int
	byID map[string]*domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{byID: make(map[string]*domain.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	project.ID = fmt.Sprintf("project-%d", r.seq)
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	stored := *project
	r.byID[project.ID] = &stored
	return nil
}

func (r *memProjectRepo) Update(_ context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *project
	r.byID[project.ID] = &stored
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.byID, id)
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	project, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *project
	return &out, nil
}

func (r *memProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	matched := make([]domain.Project, 0, len(r.byID))
	for _, project := range r.byID {
		if filter.OwnerID != nil && project.OwnerID != *filter.OwnerID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, project.Status) {
			continue
		}
		matched = append(matched, *project)
	}
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []domain.Project{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[filter.Offset:end], total, nil
}

func containsStatus(statuses []domain.ProjectStatus, status domain.ProjectStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func TestProjectCreateDefaultsToDraft(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newMemProjectRepo())

	project, err := svc.Create(ctx, "user-1", ProjectCreateInput{Title: "Portfolio Site"})
	require.NoError(t, err)
	require.Equal(t, domain.ProjectStatusDraft, project.Status)
	require.Equal(t, "user-1", project.OwnerID)
	require.NotEmpty(t, project.ID)
}

func TestProjectCreateRequiresTitle(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newMemProjectRepo())

	_, err := svc.Create(ctx, "user-1", ProjectCreateInput{Title: "   "})
	require.Error(t, err)
}

func TestProjectUpdatePartial(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newMemProjectRepo())

	project, err := svc.Create(ctx, "user-1", ProjectCreateInput{Title: "Old Title", Description: "desc"})
	require.NoError(t, err)

	published := domain.ProjectStatusPublished
	newTitle := "New Title"
	updated, err := svc.Update(ctx, project.ID, ProjectUpdateInput{Title: &newTitle, Status: &published})
	require.NoError(t, err)
	require.Equal(t, "New Title", updated.Title)
	require.Equal(t, "desc", updated.Description)
	require.Equal(t, domain.ProjectStatusPublished, updated.Status)
}

func TestProjectListPublishedOnly(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newMemProjectRepo())

	_, err := svc.Create(ctx, "user-1", ProjectCreateInput{Title: "Draft One"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "user-1", ProjectCreateInput{Title: "Live One", Status: domain.ProjectStatusPublished})
	require.NoError(t, err)

	projects, total, err := svc.List(ctx, ProjectListFilter{PublishedOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, projects, 1)
	require.Equal(t, "Live One", projects[0].Title)

	_, total, err = svc.List(ctx, ProjectListFilter{Limit: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
}

func TestProjectDeleteMissingIsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newMemProjectRepo())

	err := svc.Delete(ctx, "missing")
	require.True(t, apperrors.IsNotFound(err))
}
