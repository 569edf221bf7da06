package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portfolio-api/internal/auth"
	"github.com/spec-kit/portfolio-api/internal/config"
	"github.com/spec-kit/portfolio-api/internal/domain"
	"github.com/spec-kit/portfolio-api/internal/events"
	"github.com/spec-kit/portfolio-api/internal/repository"
	apperrors "github.com/spec-kit/portfolio-api/pkg/util"
)

const oauthStatePrefix = "oauth:state:"

// OAuthUserInfo is the provider-agnostic identity projection.
type OAuthUserInfo struct {
	ExternalID string
	Email      string
	Name       string
	Avatar     string
}

// OAuthService drives the authorization-code login flow: state nonce in the
// cache, code exchange and userinfo over HTTP, identity linking by
// (provider, externalId), then the normal token pair.
type OAuthService struct {
	cfg        config.OAuthConfig
	users      repository.UserRepository
	sessions   *SessionService
	cache      auth.Cache
	httpClient *http.Client
}

// NewOAuthService constructs the service.
func NewOAuthService(cfg config.OAuthConfig, users repository.UserRepository, sessions *SessionService, cache auth.Cache) *OAuthService {
	return &OAuthService{
		cfg:        cfg,
		users:      users,
		sessions:   sessions,
		cache:      cache,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL builds the provider redirect including a fresh state nonce.
func (s *OAuthService) AuthorizeURL(ctx context.Context, provider string) (string, error) {
	pc, ok := s.cfg.Providers[provider]
	if !ok {
		return "", apperrors.NewNotFound("oauth provider", map[string]any{"provider": provider})
	}

	state := uuid.NewString()
	if err := s.cache.Set(ctx, oauthStatePrefix+state, provider, s.cfg.StateTTL()); err != nil {
		return "", apperrors.NewInternalError(err)
	}

	q := url.Values{}
	q.Set("client_id", pc.ClientID)
	q.Set("redirect_uri", pc.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", pc.Scopes)
	q.Set("state", state)
	return pc.AuthURL + "?" + q.Encode(), nil
}

// HandleCallback completes the flow: state check, code exchange, userinfo,
// identity lookup or provisioning, then token minting.
func (s *OAuthService) HandleCallback(ctx context.Context, provider, code, state string) (*domain.User, *TokenPair, error) {
	pc, ok := s.cfg.Providers[provider]
	if !ok {
		return nil, nil, apperrors.NewNotFound("oauth provider", map[string]any{"provider": provider})
	}

	stored, found, err := s.cache.Get(ctx, oauthStatePrefix+state)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	if !found || stored != provider {
		return nil, nil, apperrors.NewUnauthorized("invalid oauth state")
	}
	_, _ = s.cache.Del(ctx, oauthStatePrefix+state)

	accessToken, err := s.exchangeCode(ctx, pc, code)
	if err != nil {
		return nil, nil, apperrors.NewUnauthorized("oauth code exchange failed")
	}

	info, err := s.fetchUserInfo(ctx, pc, accessToken)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	if info.ExternalID == "" {
		return nil, nil, apperrors.NewUnauthorized("provider returned no subject id")
	}

	user, err := s.findOrCreateUser(ctx, provider, info)
	if err != nil {
		return nil, nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, nil, apperrors.NewUnauthorized("account disabled")
	}

	pair, err := s.sessions.GenerateTokens(ctx, user.ID, user.FullName, domain.RoleStrings(user.Roles))
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *OAuthService) findOrCreateUser(ctx context.Context, provider string, info *OAuthUserInfo) (*domain.User, error) {
	user, err := s.users.GetByOAuthID(ctx, provider, info.ExternalID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	// Link to an existing email account before provisioning a new one.
	if info.Email != "" {
		existing, err := s.users.GetByEmailWithPassword(ctx, info.Email)
		if err == nil {
			if existing.OAuthIDs == nil {
				existing.OAuthIDs = map[string]string{}
			}
			existing.OAuthIDs[provider] = info.ExternalID
			if err := s.users.Update(ctx, existing); err != nil {
				return nil, apperrors.NewInternalError(err)
			}
			s.sessions.publish(ctx, events.EventOAuthLinked, existing.ID, events.OAuthLinkedPayload{
				Provider:   provider,
				ExternalID: info.ExternalID,
			})
			existing.PasswordHash = ""
			return existing, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
	}

	user = &domain.User{
		FullName: info.Name,
		Email:    info.Email,
		OAuthIDs: map[string]string{provider: info.ExternalID},
		Roles:    []domain.Role{domain.RoleUser},
		Avatar:   info.Avatar,
		Status:   domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.sessions.publish(ctx, events.EventOAuthLinked, user.ID, events.OAuthLinkedPayload{
		Provider:   provider,
		ExternalID: info.ExternalID,
	})
	return user, nil
}

func (s *OAuthService) exchangeCode(ctx context.Context, pc config.OAuthProviderConfig, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", pc.RedirectURL)
	form.Set("client_id", pc.ClientID)
	form.Set("client_secret", pc.ClientSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token exchange request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("token exchange failed: status=%d", resp.StatusCode)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("empty provider access token")
	}
	return payload.AccessToken, nil
}

func (s *OAuthService) fetchUserInfo(ctx context.Context, pc config.OAuthProviderConfig, accessToken string) (*OAuthUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pc.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read userinfo response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("userinfo failed: status=%d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode userinfo response: %w", err)
	}

	info := &OAuthUserInfo{
		ExternalID: stringValue(raw["sub"]),
		Email:      stringValue(raw["email"]),
		Name:       stringValue(raw["name"]),
		Avatar:     stringValue(raw["picture"]),
	}
	// GitHub-style payloads use different keys.
	if info.ExternalID == "" {
		info.ExternalID = stringValue(raw["id"])
	}
	if info.Name == "" {
		info.Name = stringValue(raw["login"])
	}
	if info.Avatar == "" {
		info.Avatar = stringValue(raw["avatar_url"])
	}
	return info, nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return fmt.Sprintf("%.0f", val)
	default:
		return ""
	}
}
