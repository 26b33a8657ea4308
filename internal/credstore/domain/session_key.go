package domain

import "time"

// SessionKey is a derived store key cached on disk for a bounded time window.
type SessionKey struct {
	// Key is the raw key, or the keeper-wrapped key when Wrapped is set.
	Key       []byte
	ExpiresAt time.Time
	Wrapped   bool
}

// Expired reports whether the cache entry can no longer be used at now.
func (s *SessionKey) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// StoreStatus summarizes the credential store without unlocking it.
type StoreStatus struct {
	Initialized bool
	// Unlocked reports whether this process already holds the store key in memory.
	Unlocked bool
	// KeyCachedUntil is set when a usable key cache file exists.
	KeyCachedUntil *time.Time
}
