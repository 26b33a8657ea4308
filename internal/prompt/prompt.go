// Package prompt asks the person running the CLI for passwords and choices.
package prompt

import (
	"context"

	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// ErrCancelled is returned when input ends or the prompt is interrupted before an answer
// is given.
var ErrCancelled = apperrors.New("prompt cancelled")

// Prompter reads answers and shows notices.
type Prompter interface {
	// Prompt shows message and returns the answer without its trailing newline. Input is
	// not echoed when secret is set and the input is a terminal.
	Prompt(ctx context.Context, message string, secret bool) (string, error)

	// Notify shows an informational message.
	Notify(message string)
}

// SecretPrompter is implemented by prompters that can hand back secret input as a byte
// slice the caller owns and can wipe.
type SecretPrompter interface {
	PromptSecret(ctx context.Context, message string) ([]byte, error)
}
