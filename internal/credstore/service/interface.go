// Package service implements the disk-backed key cache and the encrypted store file
// manager. Both sit between the credential use case and the file repositories.
package service

import (
	"context"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
)

// StoreFileRepository defines persistence of the encrypted store file.
type StoreFileRepository interface {
	Path() string
	Exists(ctx context.Context) (bool, error)
	Read(ctx context.Context) (*credstoreDomain.StoreFile, error)
	Write(ctx context.Context, file *credstoreDomain.StoreFile) error
	Remove(ctx context.Context) error
}

// KeyCacheRepository defines persistence of the session key cache file.
type KeyCacheRepository interface {
	Path() string
	Read(ctx context.Context) (*credstoreDomain.SessionKey, error)
	Write(ctx context.Context, key *credstoreDomain.SessionKey) error
	Remove(ctx context.Context) error
}

// Notifier shows informational messages to the person running the command.
type Notifier interface {
	Notify(message string)
}
