package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// memCache is an in-memory Cache with TTL expiry for tests.
type memCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	value     string
	expiresAt time.Time
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]memEntry)}
}

func (m *memCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

func (m *memCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok || m.expired(entry) {
		delete(m.entries, key)
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *memCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok, err := m.Get(ctx, key)
	return ok, err
}

func (m *memCache) Del(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	delete(m.entries, key)
	return ok && !m.expired(entry), nil
}

func (m *memCache) expired(entry memEntry) bool {
	return !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt)
}

func TestBlacklistMembership(t *testing.T) {
	ctx := context.Background()
	store := NewRevocationStore(newMemCache())

	require.NoError(t, store.Blacklist(ctx, "jti-1", "user-1", time.Minute))

	revoked, err := store.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = store.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestBlacklistSkipsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	cache := newMemCache()
	store := NewRevocationStore(cache)

	require.NoError(t, store.Blacklist(ctx, "jti-1", "user-1", 0))
	require.NoError(t, store.Blacklist(ctx, "jti-2", "user-1", -time.Minute))

	require.Empty(t, cache.entries)
}

func TestConsumeRefreshIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := NewRevocationStore(newMemCache())

	require.NoError(t, store.AdmitRefresh(ctx, "jti-1", "user-1", time.Hour))

	consumed, err := store.ConsumeRefresh(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, consumed)

	consumed, err = store.ConsumeRefresh(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, consumed)
}

func TestWatermarkRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewRevocationStore(newMemCache())

	at := time.Now().Truncate(time.Second)
	require.NoError(t, store.SetWatermark(ctx, "user-1", at, time.Minute))

	watermark, ok, err := store.Watermark(ctx, "user-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, watermark.Equal(at))

	_, ok, err = store.Watermark(ctx, "user-2")
	require.NoError(t, err)
	require.False(t, ok)
}
