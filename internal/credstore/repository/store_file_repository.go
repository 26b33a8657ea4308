package repository

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/jellydator/validation"
	"github.com/spf13/afero"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
	customValidation "github.com/allisson/dspace-credstore/internal/validation"
)

// storeFileJSON is the on-disk layout. Pointer fields distinguish absent from zero so
// legacy files can fall back to their historical defaults.
type storeFileJSON struct {
	Version    *int   `json:"version,omitempty"`
	KDF        string `json:"kdf,omitempty"`
	Iterations *int   `json:"iterations,omitempty"`
	Algorithm  string `json:"algorithm,omitempty"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce,omitempty"`
	IV         string `json:"iv,omitempty"`
	Ciphertext string `json:"ciphertext"`
}

func (s *storeFileJSON) validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Salt, validation.Required, customValidation.Hex),
		validation.Field(&s.Nonce, validation.Required, customValidation.Hex),
		validation.Field(&s.Ciphertext, validation.Required, customValidation.Hex),
	)
}

// StoreFileRepository reads and writes the encrypted store file.
type StoreFileRepository struct {
	fs   afero.Fs
	path string
}

// Path returns the location of the store file.
func (r *StoreFileRepository) Path() string {
	return r.path
}

// Exists reports whether the store file is present.
func (r *StoreFileRepository) Exists(ctx context.Context) (bool, error) {
	ok, err := afero.Exists(r.fs, r.path)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to stat store file")
	}
	return ok, nil
}

// Read loads and decodes the store file. It returns ErrStoreNotFound when the file is
// absent and ErrMalformedStoreFile for any structural problem.
func (r *StoreFileRepository) Read(ctx context.Context) (*credstoreDomain.StoreFile, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, credstoreDomain.ErrStoreNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read store file")
	}
	return decodeStoreFile(data)
}

// Write atomically replaces the store file.
func (r *StoreFileRepository) Write(ctx context.Context, file *credstoreDomain.StoreFile) error {
	version := file.Version
	iterations := file.Iterations
	doc := storeFileJSON{
		Version:    &version,
		KDF:        string(file.KDF),
		Iterations: &iterations,
		Algorithm:  string(file.Algorithm),
		Salt:       hex.EncodeToString(file.Salt),
		Nonce:      hex.EncodeToString(file.Nonce),
		Ciphertext: hex.EncodeToString(file.Ciphertext),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperrors.Wrap(err, "failed to encode store file")
	}
	return writeFileAtomic(r.fs, r.path, data)
}

// Remove deletes the store file. A missing file is not an error.
func (r *StoreFileRepository) Remove(ctx context.Context) error {
	return removeIfExists(r.fs, r.path)
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", credstoreDomain.ErrMalformedStoreFile, fmt.Sprintf(format, args...))
}

func decodeStoreFile(data []byte) (*credstoreDomain.StoreFile, error) {
	var doc storeFileJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, malformed("%v", err)
	}
	switch {
	case doc.Nonce == "":
		doc.Nonce = doc.IV
	case doc.IV != "" && !strings.EqualFold(doc.IV, doc.Nonce):
		return nil, malformed("nonce and iv disagree")
	}
	if err := doc.validate(); err != nil {
		return nil, malformed("%v", err)
	}

	header := credstoreDomain.StoreHeader{
		Version:    credstoreDomain.LegacyVersion,
		KDF:        cryptoDomain.PBKDF2SHA256,
		Iterations: cryptoDomain.LegacyKDFIterations,
		Algorithm:  cryptoDomain.AESGCM,
	}
	if doc.Version != nil {
		header.Version = *doc.Version
	}
	if header.Version < credstoreDomain.LegacyVersion || header.Version > credstoreDomain.CurrentVersion {
		return nil, malformed("unsupported version %d", header.Version)
	}
	if doc.KDF != "" {
		header.KDF = cryptoDomain.KDF(doc.KDF)
	}
	if doc.Iterations != nil {
		header.Iterations = *doc.Iterations
	}
	if doc.Algorithm != "" {
		alg, err := cryptoDomain.ParseAlgorithm(doc.Algorithm)
		if err != nil {
			return nil, malformed("%v", err)
		}
		header.Algorithm = alg
	}

	// Validated above, decoding cannot fail.
	header.Salt, _ = hex.DecodeString(doc.Salt)
	nonce, _ := hex.DecodeString(doc.Nonce)
	ciphertext, _ := hex.DecodeString(doc.Ciphertext)

	if err := header.KDFParams().Validate(); err != nil {
		return nil, malformed("%v", err)
	}
	if len(nonce) != cryptoDomain.NonceSize {
		return nil, malformed("nonce is %d bytes, want %d", len(nonce), cryptoDomain.NonceSize)
	}

	return &credstoreDomain.StoreFile{
		StoreHeader: header,
		Nonce:       nonce,
		Ciphertext:  ciphertext,
	}, nil
}

// NewStoreFileRepository creates a repository for the store file at path.
func NewStoreFileRepository(fs afero.Fs, path string) *StoreFileRepository {
	return &StoreFileRepository{
		fs:   fs,
		path: path,
	}
}
