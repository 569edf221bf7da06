package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/portfolio-api/internal/domain"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// Authorize passes when the required set is empty or shares at least one
// role with the actual set. Pure function, no state.
func Authorize(required, actual []domain.Role) error {
	if len(required) == 0 {
		return nil
	}
	actualSet := make(map[domain.Role]struct{}, len(actual))
	for _, role := range actual {
		actualSet[role] = struct{}{}
	}
	for _, role := range required {
		if _, ok := actualSet[role]; ok {
			return nil
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

// RequireRoles ensures the authenticated principal carries one of the roles.
func RequireRoles(required ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return AuthorizeThenNext(c, required, principal.Roles)
	}
}

// RequireAuthenticated ensures a principal is present without checking roles.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// AuthorizeThenNext runs the role gate and continues the chain on success.
func AuthorizeThenNext(c *fiber.Ctx, required, actual []domain.Role) error {
	if err := Authorize(required, actual); err != nil {
		return err
	}
	return c.Next()
}
