package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
)

// SetInput describes where the value of a set command comes from. Exactly one of Value
// and ValueFile is used; ValueFile "-" reads the value from the command's reader.
type SetInput struct {
	Name      string
	Value     string
	ValueFile string
	// AsString stores the raw text as a JSON string instead of parsing it as JSON.
	AsString bool
}

// RunSet stores a JSON value under a name, creating the store on first use.
func RunSet(
	ctx context.Context,
	useCase credstoreUseCase.CredentialUseCase,
	logger *slog.Logger,
	streams IOTuple,
	input SetInput,
) error {
	raw, err := readSetValue(streams.Reader, input)
	if err != nil {
		return err
	}

	value := json.RawMessage(raw)
	if input.AsString {
		value, err = json.Marshal(strings.TrimRight(raw, "\r\n"))
		if err != nil {
			return fmt.Errorf("failed to encode value: %w", err)
		}
	}

	if err := useCase.Set(ctx, input.Name, value); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	logger.Debug("secret stored", slog.String("name", input.Name))
	_, err = fmt.Fprintf(streams.Writer, "stored %s\n", input.Name)
	return err
}

func readSetValue(in io.Reader, input SetInput) (string, error) {
	switch {
	case input.ValueFile != "" && input.Value != "":
		return "", errors.New("provide either a value argument or --value-file, not both")
	case input.ValueFile == "-":
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("failed to read value from stdin: %w", err)
		}
		return string(data), nil
	case input.ValueFile != "":
		data, err := os.ReadFile(input.ValueFile)
		if err != nil {
			return "", fmt.Errorf("failed to read value file: %w", err)
		}
		return string(data), nil
	case input.Value != "":
		return input.Value, nil
	default:
		return "", errors.New("a value argument or --value-file is required")
	}
}
