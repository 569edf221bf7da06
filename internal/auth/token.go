package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/portfolio-api/internal/config"
)

// TokenKind distinguishes the two token classes, each signed with its own secret.
type TokenKind string

const (
	TokenKindAccess  TokenKind = "access"
	TokenKindRefresh TokenKind = "refresh"
)

var (
	// ErrInvalidToken covers signature, structure and claim failures.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's exp claim has passed.
	ErrExpiredToken = errors.New("token expired")
)

// Claims describes the signed payload. The registered claims carry the
// subject id, the per-token jti, and the issued-at/expiry pair.
type Claims struct {
	FullName string    `json:"name,omitempty"`
	Roles    []string  `json:"roles,omitempty"`
	Kind     TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens. Access and refresh tokens use
// independent secrets and lifetimes; every signed payload gets a fresh jti so
// individual tokens are revocable independent of their subject.
type TokenCodec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewTokenCodec builds a codec from auth configuration.
func NewTokenCodec(cfg config.AuthConfig) *TokenCodec {
	return &TokenCodec{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL(),
		refreshTTL:    cfg.RefreshTokenTTL(),
		now:           time.Now,
	}
}

// WithClock overrides the codec's time source.
func (tc *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	if now != nil {
		tc.now = now
	}
	return tc
}

// TTL returns the configured lifetime for a token kind.
func (tc *TokenCodec) TTL(kind TokenKind) time.Duration {
	if kind == TokenKindRefresh {
		return tc.refreshTTL
	}
	return tc.accessTTL
}

func (tc *TokenCodec) secretFor(kind TokenKind) []byte {
	if kind == TokenKindRefresh {
		return tc.refreshSecret
	}
	return tc.accessSecret
}

// Sign builds and signs a token of the given kind for the subject.
func (tc *TokenCodec) Sign(kind TokenKind, subjectID, fullName string, roles []string) (string, *Claims, error) {
	now := tc.now()
	claims := &Claims{
		FullName: fullName,
		Roles:    roles,
		Kind:     kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tc.TTL(kind))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tc.secretFor(kind))
	if err != nil {
		return "", nil, err
	}
	return tokenString, claims, nil
}

// Verify validates signature, expiry and kind, returning the claims.
func (tc *TokenCodec) Verify(kind TokenKind, tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tc.secretFor(kind), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Decode reads claims without verifying the signature. Only safe for
// revocation bookkeeping (reading jti/exp); never an authorization decision.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
