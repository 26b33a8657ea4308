package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

type statusOutput struct {
	Initialized    bool       `json:"initialized"`
	KeyCachedUntil *time.Time `json:"key_cached_until"`
}

// RunStatus prints whether the store exists and until when a key is cached.
// It never asks for the master password.
func RunStatus(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	out io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	status, err := useCase.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to read store status: %w", err)
	}

	if format == FormatJSON {
		return writeJSON(out, statusOutput{
			Initialized:    status.Initialized,
			KeyCachedUntil: status.KeyCachedUntil,
		})
	}

	initialized := "no"
	if status.Initialized {
		initialized = "yes"
	}
	cached := "none"
	if status.KeyCachedUntil != nil {
		cached = "until " + status.KeyCachedUntil.Local().Format(time.RFC3339)
	}

	_, err = fmt.Fprintf(out, "Store initialized: %s\nCached key: %s\n", initialized, cached)
	return err
}
