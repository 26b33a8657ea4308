package commands

import (
	"context"
	"fmt"
	"io"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// RunList prints the stored secret names in lexical order, one per line.
func RunList(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	out io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	names, err := useCase.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list secrets: %w", err)
	}

	if format == FormatJSON {
		if names == nil {
			names = []string{}
		}
		return writeJSON(out, names)
	}

	for _, name := range names {
		if _, err := fmt.Fprintln(out, name); err != nil {
			return err
		}
	}
	return nil
}
