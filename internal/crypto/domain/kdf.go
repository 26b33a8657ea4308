package domain

import (
	"fmt"
)

// KDFParams holds the parameters needed to re-derive a store key from its password.
type KDFParams struct {
	KDF        KDF
	Iterations int
	Salt       []byte
}

// Validate checks the parameters are usable for derivation.
func (p KDFParams) Validate() error {
	if p.KDF != PBKDF2SHA256 {
		return fmt.Errorf("%w: %q", ErrUnsupportedKDF, p.KDF)
	}
	if len(p.Salt) == 0 {
		return fmt.Errorf("%w: salt is empty", ErrInvalidKDFParams)
	}
	if p.Iterations < MinKDFIterations {
		return fmt.Errorf(
			"%w: %d iterations, minimum is %d",
			ErrInvalidKDFParams,
			p.Iterations,
			MinKDFIterations,
		)
	}
	if p.Iterations > MaxKDFIterations {
		return fmt.Errorf(
			"%w: %d iterations, maximum is %d",
			ErrInvalidKDFParams,
			p.Iterations,
			MaxKDFIterations,
		)
	}
	return nil
}

// ParseAlgorithm converts a configured or persisted identifier into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}
