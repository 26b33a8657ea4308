// Package usecase implements the credential store facade. Every public operation makes
// sure a store key is available (process memory, then the disk cache, then a password
// prompt), decrypts the whole store, operates on it and re-encrypts it under a fresh
// nonce.
package usecase

import (
	"context"
	"encoding/json"
	"time"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
)

// StoreManager defines loading and saving of the encrypted store file.
type StoreManager interface {
	Exists(ctx context.Context) (bool, error)
	Load(ctx context.Context) (*credstoreDomain.StoreFile, error)
	NewHeader(salt []byte) credstoreDomain.StoreHeader
	DecryptAll(file *credstoreDomain.StoreFile, key []byte) (credstoreDomain.SecretMap, error)
	Save(
		ctx context.Context,
		header credstoreDomain.StoreHeader,
		secrets credstoreDomain.SecretMap,
		key []byte,
	) (*credstoreDomain.StoreFile, error)
	Remove(ctx context.Context) error
}

// KeyCache defines the disk-backed key cache.
type KeyCache interface {
	TryLoad(ctx context.Context) ([]byte, bool)
	Persist(ctx context.Context, key []byte, duration time.Duration) error
	Clear(ctx context.Context) error
	Peek(ctx context.Context) (time.Time, bool)
}

// CredentialUseCase defines the credential store operations used by the CLI.
type CredentialUseCase interface {
	// Get returns the value stored under name. A missing store or name is reported with
	// found=false and no error.
	Get(ctx context.Context, name string) (value json.RawMessage, found bool, err error)
	// Set stores value under name, creating the store on first use.
	Set(ctx context.Context, name string, value json.RawMessage) error
	// Delete removes name and reports whether it was present.
	Delete(ctx context.Context, name string) (bool, error)
	// List returns the stored names in lexical order.
	List(ctx context.Context) ([]string, error)
	// ClearCachedKey forgets the key in memory and on disk.
	ClearCachedKey(ctx context.Context) error
	// Reset deletes the store and every cached key.
	Reset(ctx context.Context) error
	IsInitialized(ctx context.Context) (bool, error)
	// Status never prompts.
	Status(ctx context.Context) (*credstoreDomain.StoreStatus, error)
}
