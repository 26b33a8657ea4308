package domain

import (
	"github.com/allisson/dspace-credstore/internal/errors"
)

// Cryptographic error definitions.
var (
	// ErrUnsupportedAlgorithm indicates an unknown cipher identifier.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrUnsupportedKDF indicates an unknown key derivation identifier.
	ErrUnsupportedKDF = errors.Wrap(errors.ErrInvalidInput, "unsupported key derivation function")

	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrInvalidKDFParams indicates an empty salt or an iteration count outside
	// MinKDFIterations..MaxKDFIterations.
	ErrInvalidKDFParams = errors.Wrap(errors.ErrInvalidInput, "invalid key derivation parameters")

	// ErrEmptyPassword indicates an empty password was supplied for key derivation.
	ErrEmptyPassword = errors.Wrap(errors.ErrInvalidInput, "password must not be empty")

	// ErrDecryptionFailed indicates AEAD authentication failed.
	//
	// A wrong key and tampered or truncated data produce the same error. The cause is
	// never disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrUnauthorized, "decryption failed")
)
