package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/domain"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as carried by the token.
type Principal struct {
	SubjectID string
	FullName  string
	Roles     []domain.Role
	TokenID   string
}

// TokenValidator is the single predicate gating protected routes. The
// session service implements it: verify signature and expiry, then check
// revocation state.
type TokenValidator interface {
	Validate(ctx context.Context, accessToken string) (*Claims, error)
}

// AuthMiddleware validates bearer tokens and stores the principal.
type AuthMiddleware struct {
	validator TokenValidator
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{validator: validator}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.validator.Validate(c.UserContext(), parts[1])
	if err != nil {
		// Validate distinguishes rejected tokens from revocation-ledger
		// failures; the latter must stay internal errors so the cause is
		// logged, not masked as a 401.
		return err
	}

	c.Locals(principalKey, &Principal{
		SubjectID: claims.Subject,
		FullName:  claims.FullName,
		Roles:     domain.RolesFromStrings(claims.Roles),
		TokenID:   claims.ID,
	})
	return c.Next()
}

// HandleOptional validates the bearer token when one is supplied and lets
// anonymous requests through. A token that is present but invalid is still
// rejected, so callers cannot downgrade themselves past a bad credential.
func (m *AuthMiddleware) HandleOptional(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	return m.Handle(c)
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
