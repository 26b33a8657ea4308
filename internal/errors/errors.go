// Package errors provides the generic error categories shared by every layer of the
// credential store. Domain packages wrap these sentinels so the CLI can decide how to
// report a failure without knowing which component produced it.
package errors

import (
	"errors"
	"fmt"
)

// Standard error categories.
var (
	// ErrNotFound indicates the requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates user or caller input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates the supplied key material cannot open the protected data.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrCorrupted indicates persisted data is structurally unreadable.
	ErrCorrupted = errors.New("corrupted")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
