package domain

import (
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	"github.com/allisson/dspace-credstore/internal/errors"
)

// Credential store error definitions.
var (
	// ErrEmptyPassword indicates a blank or cancelled password prompt.
	ErrEmptyPassword = cryptoDomain.ErrEmptyPassword

	// ErrPasswordMismatch indicates the two entries of a new master password differ.
	ErrPasswordMismatch = errors.Wrap(errors.ErrInvalidInput, "passwords do not match")

	// ErrInvalidSecretName indicates a blank secret name.
	ErrInvalidSecretName = errors.Wrap(errors.ErrInvalidInput, "secret name must not be blank")

	// ErrInvalidSecretValue indicates a value that is not valid JSON.
	ErrInvalidSecretValue = errors.Wrap(errors.ErrInvalidInput, "secret value must be valid JSON")

	// ErrSecretNotFound indicates the named secret is not in the store.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrAuthenticationFailed indicates the store could not be decrypted, either because
	// the master password is wrong or because the file was tampered with.
	ErrAuthenticationFailed = cryptoDomain.ErrDecryptionFailed

	// ErrMalformedStoreFile indicates the store file JSON or hex encoding is unreadable.
	ErrMalformedStoreFile = errors.Wrap(errors.ErrCorrupted, "malformed store file")

	// ErrCacheRead indicates the key cache file exists but cannot be used.
	ErrCacheRead = errors.Wrap(errors.ErrCorrupted, "unreadable key cache")

	// ErrStoreNotFound indicates the store file does not exist yet.
	ErrStoreNotFound = errors.Wrap(errors.ErrNotFound, "store file not found")

	// ErrSessionKeyNotFound indicates there is no key cache file.
	ErrSessionKeyNotFound = errors.Wrap(errors.ErrNotFound, "session key not found")
)
