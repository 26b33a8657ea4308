package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// RunGet prints the value stored under name. In text format a JSON string is printed
// without quotes so it can be used directly in shell scripts.
func RunGet(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	logger *slog.Logger,
	out io.Writer,
	name string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Debug("reading secret", slog.String("name", name))

	value, found, err := useCase.Get(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to read secret: %w", err)
	}
	if !found {
		return credstoreDomain.ErrSecretNotFound
	}

	if format == FormatJSON {
		var indented bytes.Buffer
		if err := json.Indent(&indented, value, "", "  "); err != nil {
			return fmt.Errorf("failed to format value: %w", err)
		}
		_, err = fmt.Fprintln(out, indented.String())
		return err
	}

	var s string
	if err := json.Unmarshal(value, &s); err == nil {
		_, err = fmt.Fprintln(out, s)
		return err
	}
	_, err = fmt.Fprintln(out, string(value))
	return err
}
