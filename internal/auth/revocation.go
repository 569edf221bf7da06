package auth

import (
	"context"
	"strconv"
	"time"
)

// Cache is the key-value surface the revocation ledger needs. Implemented by
// the Redis wrapper in persistence and by an in-memory store in tests.
type Cache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) (bool, error)
}

const (
	blacklistPrefix = "token:blacklist:"
	refreshPrefix   = "token:refresh:"
	watermarkPrefix = "token:iat_watermark:"
)

// RevocationStore tracks three TTL-bounded ledgers: a jti blacklist, an
// allow-list of live refresh token jtis, and a per-subject issued-at
// watermark written on password change. Every entry expires on its own, so
// none of the ledgers outgrows the natural lifetime of the tokens it covers.
type RevocationStore struct {
	cache Cache
}

// NewRevocationStore wraps the cache.
func NewRevocationStore(cache Cache) *RevocationStore {
	return &RevocationStore{cache: cache}
}

// Blacklist marks a jti revoked for ttl. Non-positive ttl is a no-op since
// the token is already past its natural expiry.
func (r *RevocationStore) Blacklist(ctx context.Context, jti, subjectID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.cache.Set(ctx, blacklistPrefix+jti, subjectID, ttl)
}

// IsBlacklisted reports whether a jti has been revoked.
func (r *RevocationStore) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return r.cache.Exists(ctx, blacklistPrefix+jti)
}

// AdmitRefresh records a freshly issued refresh token jti for its full lifetime.
func (r *RevocationStore) AdmitRefresh(ctx context.Context, jti, subjectID string, ttl time.Duration) error {
	return r.cache.Set(ctx, refreshPrefix+jti, subjectID, ttl)
}

// ConsumeRefresh deletes the allow-list entry for a refresh jti, reporting
// whether it was still present. A consumed or never-admitted jti reports
// false, which is how refresh replay is detected.
func (r *RevocationStore) ConsumeRefresh(ctx context.Context, jti string) (bool, error) {
	return r.cache.Del(ctx, refreshPrefix+jti)
}

// SetWatermark records the moment a subject's password changed. Tokens issued
// before this instant are invalid. TTL equals the access token lifetime; any
// token old enough to predate an expired watermark has expired on its own.
func (r *RevocationStore) SetWatermark(ctx context.Context, subjectID string, at time.Time, ttl time.Duration) error {
	return r.cache.Set(ctx, watermarkPrefix+subjectID, strconv.FormatInt(at.Unix(), 10), ttl)
}

// Watermark loads the password-change watermark for a subject, if any.
func (r *RevocationStore) Watermark(ctx context.Context, subjectID string) (time.Time, bool, error) {
	val, ok, err := r.cache.Get(ctx, watermarkPrefix+subjectID)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	unix, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return time.Time{}, false, nil
	}
	return time.Unix(unix, 0), true, nil
}
