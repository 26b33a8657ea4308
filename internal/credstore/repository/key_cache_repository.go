package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/awnumar/memguard"
	validation "github.com/jellydator/validation"
	"github.com/spf13/afero"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
	customValidation "github.com/allisson/dspace-credstore/internal/validation"
)

type keyCacheJSON struct {
	KeyHex    string    `json:"keyHex"`
	ExpiresAt time.Time `json:"expiresAt"`
	Wrapped   bool      `json:"wrapped,omitempty"`
}

// KeyCacheRepository reads and writes the session key cache file.
type KeyCacheRepository struct {
	fs   afero.Fs
	path string
}

// Path returns the location of the key cache file.
func (r *KeyCacheRepository) Path() string {
	return r.path
}

// Read loads the cache file. It returns ErrSessionKeyNotFound when the file is absent and
// ErrCacheRead when it cannot be decoded.
func (r *KeyCacheRepository) Read(ctx context.Context) (*credstoreDomain.SessionKey, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, credstoreDomain.ErrSessionKeyNotFound
		}
		return nil, fmt.Errorf("%w: %v", credstoreDomain.ErrCacheRead, err)
	}
	defer memguard.WipeBytes(data)

	var doc keyCacheJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", credstoreDomain.ErrCacheRead, err)
	}
	err = validation.ValidateStruct(&doc,
		validation.Field(&doc.KeyHex, validation.Required, customValidation.Hex),
		validation.Field(&doc.ExpiresAt, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", credstoreDomain.ErrCacheRead, err)
	}

	key, _ := hex.DecodeString(doc.KeyHex)
	return &credstoreDomain.SessionKey{
		Key:       key,
		ExpiresAt: doc.ExpiresAt,
		Wrapped:   doc.Wrapped,
	}, nil
}

// Write atomically replaces the cache file with mode 0600.
func (r *KeyCacheRepository) Write(ctx context.Context, key *credstoreDomain.SessionKey) error {
	data, err := json.Marshal(keyCacheJSON{
		KeyHex:    hex.EncodeToString(key.Key),
		ExpiresAt: key.ExpiresAt.UTC(),
		Wrapped:   key.Wrapped,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode key cache")
	}
	defer memguard.WipeBytes(data)

	return writeFileAtomic(r.fs, r.path, data)
}

// Remove deletes the cache file. A missing file is not an error.
func (r *KeyCacheRepository) Remove(ctx context.Context) error {
	return removeIfExists(r.fs, r.path)
}

// NewKeyCacheRepository creates a repository for the key cache file at path.
func NewKeyCacheRepository(fs afero.Fs, path string) *KeyCacheRepository {
	return &KeyCacheRepository{
		fs:   fs,
		path: path,
	}
}
