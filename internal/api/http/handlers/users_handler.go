package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/api/dto"
	"github.com/spec-kit/portfolio-api/internal/api/response"
	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/service"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// UsersHandler exposes profile and admin user endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.users.GetProfile(c.UserContext(), principal.SubjectID)
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "ok", dto.NewUserResponse(user))
}

// UpdateMe handles PATCH /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), principal.SubjectID, service.ProfileUpdateInput{
		FullName: req.FullName,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "profile updated", dto.NewUserResponse(user))
}

// List handles GET /users (admin).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	var query dto.PageQuery
	if err := c.QueryParser(&query); err != nil {
		return apperrors.NewValidationError("invalid query", nil)
	}
	query.Normalize()

	users, total, err := h.users.List(c.UserContext(), query.PerPage, query.Offset())
	if err != nil {
		return err
	}

	return response.Paginated(c, http.StatusOK, "ok",
		dto.NewUserResponses(users),
		response.NewPagination(query.Page, query.PerPage, total),
	)
}

// Deactivate handles DELETE /users/:id (admin). Soft lifecycle only.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.users.Deactivate(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "user deactivated", nil)
}
