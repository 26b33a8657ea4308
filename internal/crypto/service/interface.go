// Package service implements the cryptographic primitives of the credential store:
// password-based key derivation and authenticated encryption of the store payload.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext bound to aad. A fresh random nonce is drawn on every call.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext with the nonce and aad used at encryption time.
	// Any authentication failure returns cryptoDomain.ErrDecryptionFailed.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyDeriver stretches a password into a fixed-length symmetric key.
type KeyDeriver interface {
	// Derive returns a cryptoDomain.KeySize key. The same password and params always
	// yield the same key.
	Derive(password []byte, params cryptoDomain.KDFParams) ([]byte, error)
}

// KMSService opens keepers used to wrap key material at rest.
type KMSService interface {
	// OpenKeeper opens a keeper for a gocloud.dev secrets URL.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
