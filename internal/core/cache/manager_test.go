package cache

import (
	"context"
	"testing"
	"time"

	"mixology-matcher/internal/infrastructure/config"
	"mixology-matcher/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxSize int) (*CacheManager, *time.Time) {
	m := NewManager(&config.CacheConfig{
		Enabled: true,
		Backend: config.CacheBackendMemory,
		MaxSize: maxSize,
		TTL:     time.Minute,
	})
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(10)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	stats := m.Stats()
	assert.EqualValues(t, 1, stats["hits"])
	assert.EqualValues(t, 1, stats["misses"])
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(10)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", []byte("v")))
	*now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.EqualValues(t, 0, m.Stats()["size"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, now := newTestManager(2)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	*now = now.Add(time.Second)
	require.NoError(t, m.Set(ctx, "b", []byte("2")))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", []byte("3")))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	_, err = m.Get(ctx, "a")
	assert.NoError(t, err)
	_, err = m.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestManagerOverwriteDoesNotEvict(t *testing.T) {
	m, _ := newTestManager(1)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", []byte("1")))
	require.NoError(t, m.Set(ctx, "a", []byte("2")))
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("match", "1,2", "all"), Key("match", "1,2", "all"))
	assert.NotEqual(t, Key("match", "1,2", "all"), Key("match", "1,2", "any"))
	assert.NotEqual(t, Key("match", "1", "2"), Key("match", "12"))
}

func TestNewStoreDisabled(t *testing.T) {
	store, err := NewStore(&config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, store)
}
