package dto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRegisterRequest(t *testing.T) {
	require.NoError(t, Validate(RegisterRequest{
		FullName: "A",
		Email:    "a@x.com",
		Password: "pw123456",
	}))
}

func TestValidateRejectsBadEmailAndShortPassword(t *testing.T) {
	err := Validate(RegisterRequest{
		FullName: "A",
		Email:    "not-an-email",
		Password: "short",
	})
	require.Error(t, err)
}

func TestValidateRefreshRequiresToken(t *testing.T) {
	require.Error(t, Validate(RefreshRequest{}))
	require.NoError(t, Validate(RefreshRequest{RefreshToken: "token"}))
}

func TestPageQueryNormalize(t *testing.T) {
	q := PageQuery{}
	q.Normalize()
	require.Equal(t, 1, q.Page)
	require.Equal(t, 20, q.PerPage)
	require.Equal(t, 0, q.Offset())

	q = PageQuery{Page: 3, PerPage: 500}
	q.Normalize()
	require.Equal(t, 100, q.PerPage)
	require.Equal(t, 200, q.Offset())
}
