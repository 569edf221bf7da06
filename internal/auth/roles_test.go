package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-api/internal/domain"
)

func TestAuthorizeEmptyRequiredPassesVacuously(t *testing.T) {
	require.NoError(t, Authorize(nil, nil))
	require.NoError(t, Authorize(nil, []domain.Role{domain.RoleUser}))
}

func TestAuthorizeRequiresIntersection(t *testing.T) {
	require.NoError(t, Authorize(
		[]domain.Role{domain.RoleAdmin, domain.RoleUser},
		[]domain.Role{domain.RoleUser},
	))

	err := Authorize([]domain.Role{domain.RoleAdmin}, []domain.Role{domain.RoleUser})
	require.Error(t, err)

	err = Authorize([]domain.Role{domain.RoleAdmin}, nil)
	require.Error(t, err)
}
