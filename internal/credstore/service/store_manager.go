package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/awnumar/memguard"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// StoreManager loads, decrypts, encrypts and saves the store file.
type StoreManager struct {
	repo        StoreFileRepository
	aeadManager cryptoService.AEADManager
	algorithm   cryptoDomain.Algorithm
	iterations  int
	logger      *slog.Logger
}

// Exists reports whether the store file is present.
func (m *StoreManager) Exists(ctx context.Context) (bool, error) {
	return m.repo.Exists(ctx)
}

// Load reads the store file without decrypting it.
func (m *StoreManager) Load(ctx context.Context) (*credstoreDomain.StoreFile, error) {
	return m.repo.Read(ctx)
}

// NewHeader builds the header of a brand-new store around a freshly generated salt.
func (m *StoreManager) NewHeader(salt []byte) credstoreDomain.StoreHeader {
	return credstoreDomain.StoreHeader{
		Version:    credstoreDomain.CurrentVersion,
		KDF:        cryptoDomain.PBKDF2SHA256,
		Iterations: m.iterations,
		Algorithm:  m.algorithm,
		Salt:       salt,
	}
}

// DecryptAll opens the store payload with key.
//
// A wrong key and a tampered file both return ErrAuthenticationFailed.
func (m *StoreManager) DecryptAll(
	file *credstoreDomain.StoreFile,
	key []byte,
) (credstoreDomain.SecretMap, error) {
	cipher, err := m.aeadManager.CreateCipher(key, file.Algorithm)
	if err != nil {
		return nil, err
	}

	plaintext, err := cipher.Decrypt(file.Ciphertext, file.Nonce, file.AAD())
	if err != nil {
		return nil, credstoreDomain.ErrAuthenticationFailed
	}
	defer memguard.WipeBytes(plaintext)

	var secrets credstoreDomain.SecretMap
	if err := json.Unmarshal(plaintext, &secrets); err != nil || secrets == nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object", credstoreDomain.ErrMalformedStoreFile)
	}
	return secrets, nil
}

// Save encrypts secrets with key under a fresh nonce and atomically replaces the store
// file. The header keeps its salt and KDF parameters; a legacy header is upgraded to the
// current version.
func (m *StoreManager) Save(
	ctx context.Context,
	header credstoreDomain.StoreHeader,
	secrets credstoreDomain.SecretMap,
	key []byte,
) (*credstoreDomain.StoreFile, error) {
	if len(header.Salt) == 0 {
		return nil, fmt.Errorf("%w: store header has no salt", cryptoDomain.ErrInvalidKDFParams)
	}
	header.Version = credstoreDomain.CurrentVersion

	cipher, err := m.aeadManager.CreateCipher(key, header.Algorithm)
	if err != nil {
		return nil, err
	}

	if secrets == nil {
		secrets = credstoreDomain.SecretMap{}
	}
	plaintext, err := json.Marshal(secrets)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encode secrets")
	}
	defer memguard.WipeBytes(plaintext)

	ciphertext, nonce, err := cipher.Encrypt(plaintext, header.AAD())
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to encrypt store")
	}

	file := &credstoreDomain.StoreFile{
		StoreHeader: header,
		Nonce:       nonce,
		Ciphertext:  ciphertext,
	}
	if err := m.repo.Write(ctx, file); err != nil {
		return nil, apperrors.Wrap(err, "failed to write store file")
	}

	m.logger.Debug("store saved",
		slog.String("path", m.repo.Path()),
		slog.Int("secrets", len(secrets)))
	return file, nil
}

// Remove deletes the store file.
func (m *StoreManager) Remove(ctx context.Context) error {
	return m.repo.Remove(ctx)
}

// NewStoreManager creates a StoreManager. New stores use algorithm and iterations; existing
// stores keep whatever their header records.
func NewStoreManager(
	repo StoreFileRepository,
	aeadManager cryptoService.AEADManager,
	algorithm cryptoDomain.Algorithm,
	iterations int,
	logger *slog.Logger,
) *StoreManager {
	return &StoreManager{
		repo:        repo,
		aeadManager: aeadManager,
		algorithm:   algorithm,
		iterations:  iterations,
		logger:      logger,
	}
}
