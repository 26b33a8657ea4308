package service

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
)

// PBKDF2Deriver derives store keys with PBKDF2-HMAC-SHA256.
type PBKDF2Deriver struct{}

// NewPBKDF2Deriver creates a new PBKDF2Deriver.
func NewPBKDF2Deriver() *PBKDF2Deriver {
	return &PBKDF2Deriver{}
}

// Derive stretches password into a 32-byte key using the salt and iteration count in params.
// The derivation is intentionally slow; expect tens of milliseconds per call.
func (d *PBKDF2Deriver) Derive(password []byte, params cryptoDomain.KDFParams) ([]byte, error) {
	if len(password) == 0 {
		return nil, cryptoDomain.ErrEmptyPassword
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return pbkdf2.Key(password, params.Salt, params.Iterations, cryptoDomain.KeySize, sha256.New), nil
}

// GenerateSalt returns cryptoDomain.SaltSize random bytes for a new store.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}
