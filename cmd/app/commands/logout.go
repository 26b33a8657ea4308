package commands

import (
	"context"
	"fmt"
	"io"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// RunLogout forgets the cached store key. The next command asks for the password again.
func RunLogout(ctx context.Context, useCase credstoreUseCase.CredentialUseCase, out io.Writer) error {
	if err := useCase.ClearCachedKey(ctx); err != nil {
		return fmt.Errorf("failed to clear cached key: %w", err)
	}
	_, err := fmt.Fprintln(out, "cached key cleared")
	return err
}
