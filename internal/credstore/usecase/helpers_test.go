package usecase

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dspace-credstore/internal/credstore/repository"
	"github.com/allisson/dspace-credstore/internal/credstore/service"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
	"github.com/allisson/dspace-credstore/internal/prompt"
)

const (
	storePath = "/home/user/.dspace-cli/auth-store.json"
	cachePath = "/home/user/.dspace-cli/.session_key"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// harness shares one filesystem between several simulated CLI invocations.
type harness struct {
	t     *testing.T
	fs    afero.Fs
	clock *fakeClock
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:     t,
		fs:    afero.NewMemMapFs(),
		clock: &fakeClock{t: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
}

// process returns a facade as a fresh CLI invocation would build it, answering prompts
// with answers in order.
func (h *harness) process(answers ...string) (CredentialUseCase, *prompt.Scripted) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scripted := prompt.NewScripted(answers...)

	keyCache := service.NewKeyCache(
		repository.NewKeyCacheRepository(h.fs, cachePath),
		nil,
		scripted,
		logger,
		h.clock.Now,
	)
	store := service.NewStoreManager(
		repository.NewStoreFileRepository(h.fs, storePath),
		cryptoService.NewAEADManager(),
		cryptoDomain.AESGCM,
		cryptoDomain.MinKDFIterations,
		logger,
	)
	return NewCredentialUseCase(store, keyCache, cryptoService.NewPBKDF2Deriver(), scripted, logger), scripted
}

func (h *harness) exists(path string) bool {
	ok, err := afero.Exists(h.fs, path)
	require.NoError(h.t, err)
	return ok
}

func (h *harness) readFile(path string) []byte {
	data, err := afero.ReadFile(h.fs, path)
	require.NoError(h.t, err)
	return data
}

func (h *harness) storeDocument() map[string]any {
	var doc map[string]any
	require.NoError(h.t, json.Unmarshal(h.readFile(storePath), &doc))
	return doc
}

func (h *harness) rewriteStore(mutate func(doc map[string]any)) {
	doc := h.storeDocument()
	mutate(doc)
	data, err := json.Marshal(doc)
	require.NoError(h.t, err)
	require.NoError(h.t, afero.WriteFile(h.fs, storePath, data, 0o600))
}

func writeRaw(h *harness, path, content string) error {
	return afero.WriteFile(h.fs, path, []byte(content), 0o600)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
