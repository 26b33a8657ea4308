// Package commands contains CLI command implementations for the credential store.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// Output formats accepted by the --format flag.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// IOTuple holds reader and writer for commands, allowing for testing.
type IOTuple struct {
	Reader io.Reader
	Writer io.Writer
}

// DefaultIO returns an IOTuple with os.Stdin and os.Stdout.
func DefaultIO() IOTuple {
	return IOTuple{
		Reader: os.Stdin,
		Writer: os.Stdout,
	}
}

// ErrorMessage renders err as the single line printed on stderr before exiting.
func ErrorMessage(err error) string {
	switch {
	case apperrors.Is(err, credstoreDomain.ErrSecretNotFound):
		return "secret not found"
	case apperrors.Is(err, credstoreDomain.ErrAuthenticationFailed):
		return "authentication failed: wrong master password or damaged store file"
	case apperrors.Is(err, credstoreDomain.ErrEmptyPassword):
		return "no master password entered"
	case apperrors.Is(err, credstoreDomain.ErrPasswordMismatch):
		return "passwords do not match"
	}
	return err.Error()
}

// validateFormat rejects anything but text and json.
func validateFormat(format string) error {
	switch format {
	case FormatText, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}
}

// writeJSON writes v indented, followed by a newline.
func writeJSON(w io.Writer, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
