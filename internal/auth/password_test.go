package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndComparePassword(t *testing.T) {
	hash, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEqual(t, "pw123456", hash)

	require.NoError(t, ComparePassword(hash, "pw123456"))
	require.Error(t, ComparePassword(hash, "wrong-password"))
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("pw123456", bcrypt.MinCost)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}
