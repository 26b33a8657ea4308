package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dspace-credstore/internal/credstore/repository"
	"github.com/allisson/dspace-credstore/internal/credstore/service"
	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
	"github.com/allisson/dspace-credstore/internal/prompt"
)

func newFacade(fs afero.Fs, prompter prompt.Prompter) credstoreUseCase.CredentialUseCase {
	keyCache := service.NewKeyCache(
		repository.NewKeyCacheRepository(fs, "/home/user/.dspace-cli/.session_key"),
		nil,
		prompter,
		discardLogger,
		nil,
	)
	store := service.NewStoreManager(
		repository.NewStoreFileRepository(fs, "/home/user/.dspace-cli/auth-store.json"),
		cryptoService.NewAEADManager(),
		cryptoDomain.AESGCM,
		cryptoDomain.MinKDFIterations,
		discardLogger,
	)
	return credstoreUseCase.NewCredentialUseCase(
		store,
		keyCache,
		cryptoService.NewPBKDF2Deriver(),
		prompter,
		discardLogger,
	)
}

func TestRunSet_ValueFromStdinWithPasswordPrompt(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()

	stdin := strings.NewReader(`{"a":1}` + "\n")
	tty := io.NopCloser(strings.NewReader("pw1\npw1\n0\n"))
	console := prompt.NewConsole(stdin, io.Discard, func() (io.ReadCloser, error) { return tty, nil })
	defer func() { _ = console.Close() }()

	var out bytes.Buffer
	err := RunSet(ctx, newFacade(fs, console), discardLogger, IOTuple{Reader: stdin, Writer: &out}, SetInput{
		Name:      "loginState",
		ValueFile: "-",
	})
	require.NoError(t, err)
	assert.Equal(t, "stored loginState\n", out.String())

	// A later invocation unlocks with the same password.
	reader := newFacade(fs, prompt.NewScripted("pw1", "0"))
	value, found, err := reader.Get(ctx, "loginState")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, `{"a":1}`, string(value))
}
