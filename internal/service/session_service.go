package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/config"
	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/events"
	"github.com/spec-kit/portfolio-api/internal/repository"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

// TokenPair is the access/refresh pair minted on login and refresh. Each
// token carries its own fresh jti.
type TokenPair struct {
	AccessToken   string
	AccessClaims  *auth.Claims
	RefreshToken  string
	RefreshClaims *auth.Claims
}

// SessionService orchestrates the session lifecycle: registration, login,
// refresh rotation, revocation and the validate predicate. All durable state
// lives in the user store and the revocation ledger; the service itself holds
// no mutable state and is safe for concurrent use.
type SessionService struct {
	users       repository.UserRepository
	codec       *auth.TokenCodec
	revocations *auth.RevocationStore
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	bcryptCost  int
	now         func() time.Time
}

// SessionDependencies bundles collaborator requirements. Clock is optional
// and defaults to time.Now.
type SessionDependencies struct {
	UserRepo   repository.UserRepository
	Cache      auth.Cache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewSessionService builds the service.
func NewSessionService(cfg config.AuthConfig, deps SessionDependencies) *SessionService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		users:       deps.UserRepo,
		codec:       auth.NewTokenCodec(cfg).WithClock(clock),
		revocations: auth.NewRevocationStore(deps.Cache),
		dispatcher:  deps.Dispatcher,
		logger:      logger,
		bcryptCost:  cfg.BcryptCost,
		now:         clock,
	}
}

// Register creates a new identity with the USER role. Returns Conflict when
// the email is already registered. The returned record never carries the
// password hash.
func (s *SessionService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		OAuthIDs:     map[string]string{},
		Roles:        []domain.Role{domain.RoleUser},
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{Email: email})

	user.PasswordHash = ""
	return user, nil
}

// Login authenticates by email/password and mints a token pair bound to the
// identity's current name and roles.
func (s *SessionService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.GetByEmailWithPassword(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, nil, apperrors.NewInternalError(err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewUnauthorized("account disabled")
	}
	if user.PasswordHash == "" {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, nil, apperrors.NewUnauthorized("invalid credentials")
	}

	pair, err := s.GenerateTokens(ctx, user.ID, user.FullName, domain.RoleStrings(user.Roles))
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{
		AccessTokenID:  pair.AccessClaims.ID,
		RefreshTokenID: pair.RefreshClaims.ID,
	})

	user.PasswordHash = ""
	return user, pair, nil
}

// GenerateTokens mints an access/refresh pair with distinct fresh jtis and
// admits the refresh jti to the allow-list for its full lifetime. Both
// tokens are signed before anything is persisted, so a signing failure
// leaves no partial session state.
func (s *SessionService) GenerateTokens(ctx context.Context, subjectID, fullName string, roles []string) (*TokenPair, error) {
	accessToken, accessClaims, err := s.codec.Sign(auth.TokenKindAccess, subjectID, fullName, roles)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	refreshToken, refreshClaims, err := s.codec.Sign(auth.TokenKindRefresh, subjectID, fullName, roles)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.revocations.AdmitRefresh(ctx, refreshClaims.ID, subjectID, s.codec.TTL(auth.TokenKindRefresh)); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	return &TokenPair{
		AccessToken:   accessToken,
		AccessClaims:  accessClaims,
		RefreshToken:  refreshToken,
		RefreshClaims: refreshClaims,
	}, nil
}

// Refresh rotates the presented refresh token: verify, consume its
// allow-list entry exactly once, then mint a brand-new pair. Replay of a
// consumed refresh token fails with Unauthorized.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(auth.TokenKindRefresh, refreshToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, apperrors.NewUnauthorized("invalid refresh token")
	}

	consumed, err := s.revocations.ConsumeRefresh(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if !consumed {
		return nil, apperrors.NewUnauthorized("refresh token already used or revoked")
	}

	pair, err := s.GenerateTokens(ctx, claims.Subject, claims.FullName, claims.Roles)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokensRefreshed, claims.Subject, events.TokensRefreshedPayload{
		ConsumedTokenID: claims.ID,
		RefreshTokenID:  pair.RefreshClaims.ID,
	})

	return pair, nil
}

// Logout revokes both tokens best-effort. Each token that still decodes gets
// a blacklist entry for its remaining lifetime; the refresh allow-list entry
// is removed so the two ledgers cannot disagree. Logout never fails the
// caller: decode and ledger failures are logged and swallowed.
func (s *SessionService) Logout(ctx context.Context, accessToken, refreshToken string) {
	now := s.now()
	revoked := make([]string, 0, 2)
	subjectID := ""

	for _, tokenStr := range []string{accessToken, refreshToken} {
		if tokenStr == "" {
			continue
		}
		claims, err := s.codec.Decode(tokenStr)
		if err != nil || claims.ID == "" {
			s.logger.Warn("logout: undecodable token skipped", zap.Error(err))
			continue
		}
		if subjectID == "" {
			subjectID = claims.Subject
		}

		ttl := time.Duration(0)
		if claims.ExpiresAt != nil {
			ttl = claims.ExpiresAt.Sub(now)
		}
		if err := s.revocations.Blacklist(ctx, claims.ID, claims.Subject, ttl); err != nil {
			s.logger.Error("logout: blacklist write failed", zap.String("jti", claims.ID), zap.Error(err))
			continue
		}
		if claims.Kind == auth.TokenKindRefresh {
			if _, err := s.revocations.ConsumeRefresh(ctx, claims.ID); err != nil {
				s.logger.Error("logout: allow-list delete failed", zap.String("jti", claims.ID), zap.Error(err))
			}
		}
		revoked = append(revoked, claims.ID)
	}

	if len(revoked) > 0 {
		s.publish(ctx, events.EventSessionRevoked, subjectID, events.SessionRevokedPayload{RevokedTokenIDs: revoked})
	}
}

// ChangePassword verifies the current password, stores the new hash and
// writes the issued-at watermark. Access tokens minted before the change
// become invalid even though their signatures still verify.
func (s *SessionService) ChangePassword(ctx context.Context, subjectID, currentPassword, newPassword string) error {
	user, err := s.users.GetByIDWithPassword(ctx, subjectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"id": subjectID})
		}
		return apperrors.NewInternalError(err)
	}

	if user.PasswordHash == "" || auth.ComparePassword(user.PasswordHash, currentPassword) != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.users.UpdatePassword(ctx, subjectID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}

	if err := s.revocations.SetWatermark(ctx, subjectID, s.now(), s.codec.TTL(auth.TokenKindAccess)); err != nil {
		return apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.EventPasswordChanged, subjectID, nil)
	return nil
}

// Validate is the single predicate gating protected requests: signature and
// expiry via the codec, then blacklist membership, then the password-change
// watermark. Fails closed on missing subject or jti. Side-effect free;
// errors other than Unauthorized indicate ledger failures.
func (s *SessionService) Validate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.codec.Verify(auth.TokenKindAccess, accessToken)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	blacklisted, err := s.revocations.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if blacklisted {
		return nil, apperrors.NewUnauthorized("token revoked")
	}

	if claims.IssuedAt != nil {
		watermark, ok, err := s.revocations.Watermark(ctx, claims.Subject)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		if ok && claims.IssuedAt.Time.Before(watermark) {
			return nil, apperrors.NewUnauthorized("token revoked")
		}
	}

	return claims, nil
}

// Codec exposes the token codec for collaborators that only sign or decode.
func (s *SessionService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *SessionService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: s.now(),
		Payload:   payload,
	})
}
