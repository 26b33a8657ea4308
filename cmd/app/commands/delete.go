package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// RunDelete removes a secret. A missing name is not an error.
func RunDelete(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	logger *slog.Logger,
	out io.Writer,
	name string,
) error {
	deleted, err := useCase.Delete(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	logger.Debug("delete finished", slog.String("name", name), slog.Bool("deleted", deleted))

	if deleted {
		_, err = fmt.Fprintln(out, "deleted")
	} else {
		_, err = fmt.Fprintln(out, "not found")
	}
	return err
}
