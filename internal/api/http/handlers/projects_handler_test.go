package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-api/internal/api/response"
	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/repository"
	"github.com/spec-kit/portfolio-api/internal/service"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

type stubValidator struct {
	claims *auth.Claims
	err    error
}

func (s *stubValidator) Validate(_ context.Context, _ string) (*auth.Claims, error) {
	return s.claims, s.err
}

func adminClaims() *auth.Claims {
	return &auth.Claims{
		FullName: "Ada",
		Roles:    []string{string(domain.RoleAdmin)},
		Kind:     auth.TokenKindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: "admin-1",
			ID:      "jti-admin",
		},
	}
}

type memProjectRepo struct {
	items map[string]*domain.Project
}

func newMemProjectRepo() *memProjectRepo {
	return &memProjectRepo{items: make(map[string]*domain.Project)}
}

func (r *memProjectRepo) Create(_ context.Context, project *domain.Project) error {
	clone := *project
	r.items[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) Update(_ context.Context, project *domain.Project) error {
	if _, ok := r.items[project.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *project
	r.items[project.ID] = &clone
	return nil
}

func (r *memProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.items, id)
	return nil
}

func (r *memProjectRepo) GetByID(_ context.Context, id string) (*domain.Project, error) {
	project, ok := r.items[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *project
	return &clone, nil
}

func (r *memProjectRepo) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, int64, error) {
	matched := make([]domain.Project, 0, len(r.items))
	for _, project := range r.items {
		if len(filter.Statuses) > 0 {
			allowed := false
			for _, status := range filter.Statuses {
				if project.Status == status {
					allowed = true
				}
			}
			if !allowed {
				continue
			}
		}
		matched = append(matched, *project)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func newProjectsApp(repo repository.ProjectRepository, validator auth.TokenValidator) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(response.Envelope{
				StatusCode: domainErr.HTTPStatus,
				Message:    domainErr.Message,
			})
		}
		return nil
	})

	mw := auth.NewAuthMiddleware(validator)
	handler := NewProjectsHandler(service.NewProjectService(repo))
	app.Get("/projects", mw.HandleOptional, handler.List)
	app.Get("/projects/:id", mw.HandleOptional, handler.Get)
	return app
}

func seedProject(repo *memProjectRepo, id string, status domain.ProjectStatus) {
	repo.items[id] = &domain.Project{
		ID:        id,
		OwnerID:   "admin-1",
		Title:     "project " + id,
		Status:    status,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func decodeEnvelope(t *testing.T, resp *http.Response) response.Envelope {
	t.Helper()
	var envelope response.Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope
}

func TestGetHidesUnpublishedFromAnonymous(t *testing.T) {
	repo := newMemProjectRepo()
	seedProject(repo, "p1", domain.ProjectStatusDraft)
	app := newProjectsApp(repo, &stubValidator{err: apperrors.NewUnauthorized("invalid token")})

	req := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetServesPublishedToAnonymous(t *testing.T) {
	repo := newMemProjectRepo()
	seedProject(repo, "p1", domain.ProjectStatusPublished)
	app := newProjectsApp(repo, &stubValidator{err: apperrors.NewUnauthorized("invalid token")})

	req := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetServesDraftToAdmin(t *testing.T) {
	repo := newMemProjectRepo()
	seedProject(repo, "p1", domain.ProjectStatusDraft)
	app := newProjectsApp(repo, &stubValidator{claims: adminClaims()})

	req := httptest.NewRequest(http.MethodGet, "/projects/p1", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListScopesVisibilityByCaller(t *testing.T) {
	repo := newMemProjectRepo()
	seedProject(repo, "p1", domain.ProjectStatusPublished)
	seedProject(repo, "p2", domain.ProjectStatusDraft)
	seedProject(repo, "p3", domain.ProjectStatusArchived)
	app := newProjectsApp(repo, &stubValidator{claims: adminClaims()})

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.EqualValues(t, 1, envelope.Pagination.Total)

	req = httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	envelope = decodeEnvelope(t, resp)
	require.EqualValues(t, 3, envelope.Pagination.Total)
}
