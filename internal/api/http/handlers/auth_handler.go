package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/api/dto"
	"github.com/spec-kit/portfolio-api/internal/api/response"
	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/service"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// AuthHandler exposes the session lifecycle endpoints.
type AuthHandler struct {
	sessions *service.SessionService
	oauth    *service.OAuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *service.SessionService, oauthService *service.OAuthService) *AuthHandler {
	return &AuthHandler{sessions: sessions, oauth: oauthService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.sessions.Register(c.UserContext(), req.FullName, req.Email, req.Password)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusCreated, "registered", fiber.Map{
		"user": dto.NewUserResponse(user),
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, pair, err := h.sessions.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, "logged in", fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": dto.TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	})
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	pair, err := h.sessions.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, "refreshed", dto.TokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// Logout handles POST /auth/logout. Best-effort: always succeeds for the
// caller. The access token defaults to the bearer token on the request.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	_ = c.BodyParser(&req)

	if req.AccessToken == "" {
		if header := c.Get("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				req.AccessToken = parts[1]
			}
		}
	}

	h.sessions.Logout(c.UserContext(), req.AccessToken, req.RefreshToken)
	return response.JSON(c, http.StatusOK, "logged out", nil)
}

// ChangePassword handles POST /auth/change-password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.sessions.ChangePassword(c.UserContext(), principal.SubjectID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return response.JSON(c, http.StatusOK, "password changed", nil)
}

// OAuthLogin handles GET /auth/oauth/:provider.
func (h *AuthHandler) OAuthLogin(c *fiber.Ctx) error {
	redirect, err := h.oauth.AuthorizeURL(c.UserContext(), c.Params("provider"))
	if err != nil {
		return err
	}
	return c.Redirect(redirect, http.StatusFound)
}

// OAuthCallback handles GET /auth/oauth/:provider/callback.
func (h *AuthHandler) OAuthCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return apperrors.NewValidationError("code and state required", nil)
	}

	user, pair, err := h.oauth.HandleCallback(c.UserContext(), c.Params("provider"), code, state)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, "logged in", fiber.Map{
		"user": dto.NewUserResponse(user),
		"auth": dto.TokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
		},
	})
}
