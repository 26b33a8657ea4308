package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets/localsecrets"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	"github.com/allisson/dspace-credstore/internal/credstore/repository"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
)

const cachePath = "/home/user/.dspace-cli/.session_key"

type keyCacheFixture struct {
	fs       afero.Fs
	repo     *repository.KeyCacheRepository
	clock    *fakeClock
	notifier *recordingNotifier
}

func newKeyCacheFixture() *keyCacheFixture {
	fs := afero.NewMemMapFs()
	return &keyCacheFixture{
		fs:       fs,
		repo:     repository.NewKeyCacheRepository(fs, cachePath),
		clock:    &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
	}
}

func (f *keyCacheFixture) newCache(keeper cryptoDomain.KMSKeeper) *KeyCache {
	return NewKeyCache(f.repo, keeper, f.notifier, discardLogger(), f.clock.Now)
}

func (f *keyCacheFixture) cacheExists(t *testing.T) bool {
	ok, err := afero.Exists(f.fs, cachePath)
	require.NoError(t, err)
	return ok
}

func testKey() []byte {
	return bytes.Repeat([]byte{0x42}, cryptoDomain.KeySize)
}

func TestKeyCache_PersistAndLoad(t *testing.T) {
	ctx := context.Background()
	f := newKeyCacheFixture()

	require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), time.Hour))
	assert.True(t, f.cacheExists(t))
	require.Len(t, f.notifier.Messages(), 1)
	assert.Contains(t, f.notifier.Messages()[0], cachePath)

	// A second process sees the key.
	key, ok := f.newCache(nil).TryLoad(ctx)
	require.True(t, ok)
	assert.Equal(t, testKey(), key)
}

func TestKeyCache_TryLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		f := newKeyCacheFixture()
		_, ok := f.newCache(nil).TryLoad(ctx)
		assert.False(t, ok)
	})

	t.Run("only the first call reads disk", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), time.Hour))

		cache := f.newCache(nil)
		_, ok := cache.TryLoad(ctx)
		require.True(t, ok)

		_, ok = cache.TryLoad(ctx)
		assert.False(t, ok)
	})

	t.Run("expired entry is deleted", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), time.Hour))

		f.clock.Advance(time.Hour)
		_, ok := f.newCache(nil).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})

	t.Run("corrupt file is deleted", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, afero.WriteFile(f.fs, cachePath, []byte("{not json"), 0o600))

		_, ok := f.newCache(nil).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})

	t.Run("wrong key length is deleted", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.repo.Write(ctx, &credstoreDomain.SessionKey{
			Key:       []byte{1, 2, 3},
			ExpiresAt: f.clock.Now().Add(time.Hour),
		}))

		_, ok := f.newCache(nil).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})
}

func TestKeyCache_PersistZeroDuration(t *testing.T) {
	ctx := context.Background()
	f := newKeyCacheFixture()
	require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), time.Hour))

	require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), 0))
	assert.False(t, f.cacheExists(t))
	assert.Len(t, f.notifier.Messages(), 1, "no warning for an in-memory only choice")
}

func TestKeyCache_Clear(t *testing.T) {
	ctx := context.Background()
	f := newKeyCacheFixture()
	cache := f.newCache(nil)

	_, ok := cache.TryLoad(ctx)
	require.False(t, ok)

	require.NoError(t, cache.Persist(ctx, testKey(), time.Hour))
	_, ok = cache.TryLoad(ctx)
	assert.False(t, ok, "load already attempted")

	require.NoError(t, cache.Clear(ctx))
	assert.False(t, f.cacheExists(t))

	require.NoError(t, cache.Persist(ctx, testKey(), time.Hour))
	_, ok = cache.TryLoad(ctx)
	assert.True(t, ok, "Clear resets the attempted flag")

	require.NoError(t, cache.Clear(ctx), "clearing twice is fine")
}

func TestKeyCache_Keeper(t *testing.T) {
	ctx := context.Background()
	secret, err := localsecrets.NewRandomKey()
	require.NoError(t, err)
	keeper := localsecrets.NewKeeper(secret)
	defer func() { _ = keeper.Close() }()

	t.Run("wrapped round trip", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(keeper).Persist(ctx, testKey(), time.Hour))

		entry, err := f.repo.Read(ctx)
		require.NoError(t, err)
		assert.True(t, entry.Wrapped)
		assert.NotEqual(t, testKey(), entry.Key)

		key, ok := f.newCache(keeper).TryLoad(ctx)
		require.True(t, ok)
		assert.Equal(t, testKey(), key)
	})

	t.Run("wrapped file without keeper is discarded", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(keeper).Persist(ctx, testKey(), time.Hour))

		_, ok := f.newCache(nil).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})

	t.Run("plain file with keeper is discarded", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(nil).Persist(ctx, testKey(), time.Hour))

		_, ok := f.newCache(keeper).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})

	t.Run("different keeper is discarded", func(t *testing.T) {
		f := newKeyCacheFixture()
		require.NoError(t, f.newCache(keeper).Persist(ctx, testKey(), time.Hour))

		other, err := localsecrets.NewRandomKey()
		require.NoError(t, err)
		otherKeeper := localsecrets.NewKeeper(other)
		defer func() { _ = otherKeeper.Close() }()

		_, ok := f.newCache(otherKeeper).TryLoad(ctx)
		assert.False(t, ok)
		assert.False(t, f.cacheExists(t))
	})
}

func TestKeyCache_Peek(t *testing.T) {
	ctx := context.Background()
	f := newKeyCacheFixture()
	cache := f.newCache(nil)

	_, ok := cache.Peek(ctx)
	assert.False(t, ok)

	require.NoError(t, cache.Persist(ctx, testKey(), 8*time.Hour))
	expiresAt, ok := cache.Peek(ctx)
	require.True(t, ok)
	assert.True(t, f.clock.Now().Add(8*time.Hour).Equal(expiresAt))

	// Peek does not consume the load attempt.
	_, ok = cache.TryLoad(ctx)
	assert.True(t, ok)

	f.clock.Advance(9 * time.Hour)
	_, ok = cache.Peek(ctx)
	assert.False(t, ok)
	assert.True(t, f.cacheExists(t), "Peek never deletes")
}
