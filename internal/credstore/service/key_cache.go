package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/awnumar/memguard"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// KeyCache keeps a derived store key on disk for a user-chosen window so later commands
// do not have to prompt for the master password.
//
// The cache file is read at most once per process: after the first TryLoad, further
// calls report no key until Clear is called. KeyCache is not safe for concurrent use.
type KeyCache struct {
	repo      KeyCacheRepository
	keeper    cryptoDomain.KMSKeeper
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time
	attempted bool
}

// TryLoad returns the cached key when a valid, unexpired cache file exists. Expired or
// unreadable cache files are deleted. It never fails: any problem means "no key".
func (c *KeyCache) TryLoad(ctx context.Context) ([]byte, bool) {
	if c.attempted {
		return nil, false
	}
	c.attempted = true

	entry, err := c.repo.Read(ctx)
	if err != nil {
		if !errors.Is(err, credstoreDomain.ErrSessionKeyNotFound) {
			c.discard(ctx, err)
		}
		return nil, false
	}

	if entry.Expired(c.now()) {
		c.logger.Debug("cached key expired", slog.Time("expires_at", entry.ExpiresAt))
		memguard.WipeBytes(entry.Key)
		c.remove(ctx)
		return nil, false
	}

	if entry.Wrapped != (c.keeper != nil) {
		memguard.WipeBytes(entry.Key)
		c.discard(ctx, fmt.Errorf("%w: wrapped=%t but keeper configured=%t",
			credstoreDomain.ErrCacheRead, entry.Wrapped, c.keeper != nil))
		return nil, false
	}

	key := entry.Key
	if entry.Wrapped {
		key, err = c.keeper.Decrypt(ctx, entry.Key)
		memguard.WipeBytes(entry.Key)
		if err != nil {
			c.discard(ctx, fmt.Errorf("%w: %v", credstoreDomain.ErrCacheRead, err))
			return nil, false
		}
	}

	if len(key) != cryptoDomain.KeySize {
		memguard.WipeBytes(key)
		c.discard(ctx, fmt.Errorf("%w: key is %d bytes", credstoreDomain.ErrCacheRead, len(key)))
		return nil, false
	}

	c.logger.Debug("using cached key", slog.Time("expires_at", entry.ExpiresAt))
	return key, true
}

// Persist writes key to the cache file valid for duration. A non-positive duration
// removes any existing cache file instead.
func (c *KeyCache) Persist(ctx context.Context, key []byte, duration time.Duration) error {
	if duration <= 0 {
		return c.repo.Remove(ctx)
	}

	expiresAt := c.now().Add(duration)
	stored := make([]byte, len(key))
	copy(stored, key)
	wrapped := false

	if c.keeper != nil {
		ciphertext, err := c.keeper.Encrypt(ctx, key)
		memguard.WipeBytes(stored)
		if err != nil {
			return apperrors.Wrap(err, "failed to wrap cached key")
		}
		stored = ciphertext
		wrapped = true
	}
	defer memguard.WipeBytes(stored)

	err := c.repo.Write(ctx, &credstoreDomain.SessionKey{
		Key:       stored,
		ExpiresAt: expiresAt,
		Wrapped:   wrapped,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to write key cache")
	}

	c.notifier.Notify(fmt.Sprintf(
		"Warning: the store key is cached on disk at %s until %s. Run 'logout' to remove it.",
		c.repo.Path(),
		expiresAt.Local().Format(time.RFC1123),
	))
	return nil
}

// Clear deletes the cache file and allows the next TryLoad to read from disk again.
func (c *KeyCache) Clear(ctx context.Context) error {
	c.attempted = false
	return c.repo.Remove(ctx)
}

// Peek reports the expiry of a present, unexpired cache file. It does not unwrap the key,
// delete anything or count as a load attempt.
func (c *KeyCache) Peek(ctx context.Context) (time.Time, bool) {
	entry, err := c.repo.Read(ctx)
	if err != nil {
		return time.Time{}, false
	}
	defer memguard.WipeBytes(entry.Key)

	if entry.Expired(c.now()) {
		return time.Time{}, false
	}
	return entry.ExpiresAt, true
}

func (c *KeyCache) discard(ctx context.Context, cause error) {
	c.logger.Warn("discarding unusable key cache",
		slog.String("path", c.repo.Path()),
		slog.String("error", cause.Error()))
	c.remove(ctx)
}

func (c *KeyCache) remove(ctx context.Context) {
	if err := c.repo.Remove(ctx); err != nil {
		c.logger.Warn("failed to remove key cache",
			slog.String("path", c.repo.Path()),
			slog.String("error", err.Error()))
	}
}

// NewKeyCache creates a KeyCache. keeper may be nil, in which case the key is stored
// unwrapped. now defaults to time.Now.
func NewKeyCache(
	repo KeyCacheRepository,
	keeper cryptoDomain.KMSKeeper,
	notifier Notifier,
	logger *slog.Logger,
	now func() time.Time,
) *KeyCache {
	if now == nil {
		now = time.Now
	}
	return &KeyCache{
		repo:     repo,
		keeper:   keeper,
		notifier: notifier,
		logger:   logger,
		now:      now,
	}
}
