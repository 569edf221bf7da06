package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/api/dto"
	"github.com/spec-kit/portfolio-api/internal/api/response"
	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/service"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// ProjectsHandler exposes portfolio project endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projects *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects}
}

// adminCaller reports whether the request carries an admin principal.
func adminCaller(c *fiber.Ctx) bool {
	principal, ok := auth.PrincipalFromContext(c)
	return ok && auth.Authorize([]domain.Role{domain.RoleAdmin}, principal.Roles) == nil
}

// List handles GET /projects. Anonymous callers only see published entries.
func (h *ProjectsHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	query.Normalize()

	filter := service.ProjectListFilter{
		Limit:         query.PerPage,
		Offset:        query.Offset(),
		PublishedOnly: true,
	}
	if tag := c.Query("tag"); tag != "" {
		filter.Tag = &tag
	}
	if adminCaller(c) {
		filter.PublishedOnly = false
	}

	projects, total, err := h.projects.List(c.UserContext(), filter)
	if err != nil {
		return err
	}

	return response.Paginated(c, http.StatusOK, "ok",
		dto.NewProjectResponses(projects),
		response.NewPagination(query.Page, query.PerPage, total),
	)
}

// Get handles GET /projects/:id. Unpublished entries are not disclosed to
// non-admin callers; they get the same not-found as a missing id.
func (h *ProjectsHandler) Get(c *fiber.Ctx) error {
	project, err := h.projects.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	if project.Status != domain.ProjectStatusPublished && !adminCaller(c) {
		return apperrors.NewNotFound("project", map[string]any{"id": c.Params("id")})
	}
	return response.JSON(c, http.StatusOK, "ok", dto.NewProjectResponse(project))
}

// Create handles POST /projects (admin).
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	project, err := h.projects.Create(c.UserContext(), principal.SubjectID, service.ProjectCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Status:      domain.ProjectStatus(req.Status),
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusCreated, "project created", dto.NewProjectResponse(project))
}

// Update handles PUT /projects/:id (admin).
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.ProjectUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		RepoURL:     req.RepoURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		input.Status = &status
	}

	project, err := h.projects.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "project updated", dto.NewProjectResponse(project))
}

// Delete handles DELETE /projects/:id (admin).
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	if err := h.projects.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "project deleted", nil)
}
