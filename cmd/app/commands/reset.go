package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
	"github.com/allisson/dspace-credstore/internal/prompt"
)

const resetConfirmPrompt = "This deletes every stored credential. Continue? [y/N]: "

// RunReset deletes the store file and the cached key. Without force the user must
// confirm first.
func RunReset(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	prompter prompt.Prompter,
	logger *slog.Logger,
	out io.Writer,
	force bool,
) error {
	if !force {
		answer, err := prompter.Prompt(ctx, resetConfirmPrompt, false)
		if err != nil && !errors.Is(err, prompt.ErrCancelled) {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
		default:
			_, err := fmt.Fprintln(out, "reset aborted")
			return err
		}
	}

	if err := useCase.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset credential store: %w", err)
	}

	logger.Info("credential store reset")
	_, err := fmt.Fprintln(out, "credential store removed")
	return err
}
