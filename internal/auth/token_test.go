package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portfolio-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		AccessTokenSecret:     "test-access-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenSecret:    "test-refresh-secret",
		RefreshTokenTTLHours:  168,
		BcryptCost:            4,
	}
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())

	token, claims, err := codec.Sign(TokenKindAccess, "user-1", "Ada Lovelace", []string{"USER"})
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, "user-1", claims.Subject)
	require.NotEmpty(t, claims.ID)

	parsed, err := codec.Verify(TokenKindAccess, token)
	require.NoError(t, err)
	require.Equal(t, claims.ID, parsed.ID)
	require.Equal(t, "Ada Lovelace", parsed.FullName)
	require.Equal(t, []string{"USER"}, parsed.Roles)
	require.Equal(t, TokenKindAccess, parsed.Kind)
}

func TestSignGeneratesDistinctTokenIDs(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())

	_, first, err := codec.Sign(TokenKindAccess, "user-1", "", nil)
	require.NoError(t, err)
	_, second, err := codec.Sign(TokenKindAccess, "user-1", "", nil)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
}

func TestVerifyRejectsWrongKind(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())

	refreshToken, _, err := codec.Sign(TokenKindRefresh, "user-1", "", nil)
	require.NoError(t, err)

	_, err = codec.Verify(TokenKindAccess, refreshToken)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())

	token, _, err := codec.Sign(TokenKindAccess, "user-1", "", nil)
	require.NoError(t, err)

	_, err = codec.Verify(TokenKindAccess, token+"x")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())
	codec.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })

	token, _, err := codec.Sign(TokenKindAccess, "user-1", "", nil)
	require.NoError(t, err)

	_, err = codec.Verify(TokenKindAccess, token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecodeReadsClaimsWithoutVerification(t *testing.T) {
	codec := NewTokenCodec(testAuthConfig())

	token, claims, err := codec.Sign(TokenKindRefresh, "user-1", "Ada", []string{"USER"})
	require.NoError(t, err)

	decoded, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, claims.ID, decoded.ID)
	require.Equal(t, TokenKindRefresh, decoded.Kind)
	require.NotNil(t, decoded.ExpiresAt)
}
