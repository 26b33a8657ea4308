package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/awnumar/memguard"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
	"github.com/allisson/dspace-credstore/internal/prompt"
	customValidation "github.com/allisson/dspace-credstore/internal/validation"
)

const (
	passwordPrompt    = "Master password: "
	newPasswordPrompt = "New master password: "
	confirmPrompt     = "Confirm master password: "

	// AuthFailureNotice is shown whenever the store cannot be decrypted.
	AuthFailureNotice = "Could not decrypt the credential store: the master password is wrong " +
		"or the store is corrupted. Cached key material has been cleared; run the command again to retry."
)

// cachePrompt lists every retention choice, e.g. "[0] no cache  [1] 1 hour ...".
var cachePrompt = func() string {
	var b strings.Builder
	b.WriteString("Cache the store key on disk? ")
	for i, d := range credstoreDomain.CacheDurations {
		if i > 0 {
			b.WriteString("  ")
		}
		fmt.Fprintf(&b, "[%d] %s", i, d.Label)
	}
	b.WriteString(" (default 0): ")
	return b.String()
}()

// credentialUseCase implements CredentialUseCase.
type credentialUseCase struct {
	mu       sync.Mutex
	store    StoreManager
	cache    KeyCache
	deriver  cryptoService.KeyDeriver
	prompter prompt.Prompter
	logger   *slog.Logger
	newSalt  func() ([]byte, error)
	memKey   memoryKey
}

// grant is a store key checked out for one operation.
type grant struct {
	buf    *memguard.LockedBuffer
	header credstoreDomain.StoreHeader
	// fresh keys came from the disk cache or a password and are kept in memory once
	// they have opened the store.
	fresh bool
	// derived keys are persisted to the disk cache with the chosen retention.
	derived bool
	cache   credstoreDomain.CacheDuration
}

// Get returns the value stored under name.
func (u *credentialUseCase) Get(ctx context.Context, name string) (json.RawMessage, bool, error) {
	if err := validateName(name); err != nil {
		return nil, false, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	file, err := u.loadFile(ctx)
	if err != nil || file == nil {
		return nil, false, err
	}

	secrets, g, err := u.open(ctx, file)
	if err != nil {
		return nil, false, err
	}
	u.release(ctx, g)

	value, found := secrets[name]
	u.logger.Debug("secret read", slog.String("name", name), slog.Bool("found", found))
	return value, found, nil
}

// Set stores value under name.
func (u *credentialUseCase) Set(ctx context.Context, name string, value json.RawMessage) error {
	if err := validateName(name); err != nil {
		return err
	}
	if err := customValidation.JSON.Validate([]byte(value)); err != nil {
		return customValidation.WrapValidationErrorAs(credstoreDomain.ErrInvalidSecretValue, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	file, err := u.loadFile(ctx)
	if err != nil {
		return err
	}

	var (
		secrets credstoreDomain.SecretMap
		g       *grant
	)
	if file == nil {
		if g, err = u.setup(ctx); err != nil {
			return err
		}
		secrets = credstoreDomain.SecretMap{}
	} else {
		if secrets, g, err = u.open(ctx, file); err != nil {
			return err
		}
	}

	secrets[name] = bytes.Clone(value)
	if _, err := u.store.Save(ctx, g.header, secrets, g.buf.Bytes()); err != nil {
		g.buf.Destroy()
		return err
	}
	u.release(ctx, g)

	u.logger.Debug("secret stored", slog.String("name", name))
	return nil
}

// Delete removes name from the store.
func (u *credentialUseCase) Delete(ctx context.Context, name string) (bool, error) {
	if err := validateName(name); err != nil {
		return false, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	file, err := u.loadFile(ctx)
	if err != nil || file == nil {
		return false, err
	}

	secrets, g, err := u.open(ctx, file)
	if err != nil {
		return false, err
	}

	if _, found := secrets[name]; !found {
		u.release(ctx, g)
		return false, nil
	}

	delete(secrets, name)
	if _, err := u.store.Save(ctx, g.header, secrets, g.buf.Bytes()); err != nil {
		g.buf.Destroy()
		return false, err
	}
	u.release(ctx, g)

	u.logger.Debug("secret deleted", slog.String("name", name))
	return true, nil
}

// List returns the stored names.
func (u *credentialUseCase) List(ctx context.Context) ([]string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	file, err := u.loadFile(ctx)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return []string{}, nil
	}

	secrets, g, err := u.open(ctx, file)
	if err != nil {
		return nil, err
	}
	u.release(ctx, g)

	return secrets.Names(), nil
}

// ClearCachedKey forgets the key in memory and on disk.
func (u *credentialUseCase) ClearCachedKey(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.clearKeys(ctx)
}

// Reset deletes the store and every cached key. Running it twice is fine.
func (u *credentialUseCase) Reset(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.clearKeys(ctx); err != nil {
		return err
	}
	return u.store.Remove(ctx)
}

// IsInitialized reports whether the store file exists.
func (u *credentialUseCase) IsInitialized(ctx context.Context) (bool, error) {
	return u.store.Exists(ctx)
}

// Status summarizes the store and its key cache.
func (u *credentialUseCase) Status(ctx context.Context) (*credstoreDomain.StoreStatus, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	initialized, err := u.store.Exists(ctx)
	if err != nil {
		return nil, err
	}

	status := &credstoreDomain.StoreStatus{
		Initialized: initialized,
		Unlocked:    u.memKey.present(),
	}
	if expiresAt, ok := u.cache.Peek(ctx); ok {
		status.KeyCachedUntil = &expiresAt
	}
	return status, nil
}

// loadFile returns nil without error when the store does not exist yet.
func (u *credentialUseCase) loadFile(ctx context.Context) (*credstoreDomain.StoreFile, error) {
	file, err := u.store.Load(ctx)
	if err != nil {
		if errors.Is(err, credstoreDomain.ErrStoreNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return file, nil
}

// open acquires a key for file and decrypts it. On authentication failure every cached
// key is cleared and the user is told once; there is no second attempt.
func (u *credentialUseCase) open(
	ctx context.Context,
	file *credstoreDomain.StoreFile,
) (credstoreDomain.SecretMap, *grant, error) {
	g, err := u.unlock(ctx, file)
	if err != nil {
		return nil, nil, err
	}

	secrets, err := u.store.DecryptAll(file, g.buf.Bytes())
	if err != nil {
		g.buf.Destroy()
		if errors.Is(err, credstoreDomain.ErrAuthenticationFailed) {
			u.logger.Warn("store decryption failed, clearing cached key")
			if clearErr := u.clearKeys(ctx); clearErr != nil {
				u.logger.Warn("failed to clear key cache", slog.String("error", clearErr.Error()))
			}
			u.prompter.Notify(AuthFailureNotice)
		}
		return nil, nil, err
	}
	return secrets, g, nil
}

// unlock finds a key for an existing store: memory first, then the disk cache on the
// first attempt of this process, then the master password.
func (u *credentialUseCase) unlock(ctx context.Context, file *credstoreDomain.StoreFile) (*grant, error) {
	if u.memKey.present() {
		buf, err := u.memKey.open()
		if err == nil {
			return &grant{buf: buf, header: file.StoreHeader}, nil
		}
		u.logger.Warn("in-memory key unusable", slog.String("error", err.Error()))
		u.memKey.clear()
	}

	if key, ok := u.cache.TryLoad(ctx); ok {
		return &grant{
			buf:    memguard.NewBufferFromBytes(key),
			header: file.StoreHeader,
			fresh:  true,
		}, nil
	}

	password, err := u.readPassword(ctx, passwordPrompt)
	if err != nil {
		return nil, err
	}
	return u.derive(ctx, password, file.StoreHeader)
}

// setup runs first-time initialization for a store that does not exist yet.
func (u *credentialUseCase) setup(ctx context.Context) (*grant, error) {
	u.memKey.clear()

	password, err := u.readPassword(ctx, newPasswordPrompt)
	if err != nil {
		return nil, err
	}
	confirm, err := u.readPassword(ctx, confirmPrompt)
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	match := bytes.Equal(password, confirm)
	memguard.WipeBytes(confirm)
	if !match {
		memguard.WipeBytes(password)
		return nil, credstoreDomain.ErrPasswordMismatch
	}

	salt, err := u.newSalt()
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	return u.derive(ctx, password, u.store.NewHeader(salt))
}

// derive stretches password with the header parameters and asks how long to cache the
// result. password is wiped.
func (u *credentialUseCase) derive(
	ctx context.Context,
	password []byte,
	header credstoreDomain.StoreHeader,
) (*grant, error) {
	key, err := u.deriver.Derive(password, header.KDFParams())
	memguard.WipeBytes(password)
	if err != nil {
		return nil, err
	}

	return &grant{
		buf:     memguard.NewBufferFromBytes(key),
		header:  header,
		fresh:   true,
		derived: true,
		cache:   u.askCacheDuration(ctx),
	}, nil
}

// readPassword returns a password slice the caller must wipe. Prompters that cannot
// return bytes go through an immutable string, which stays in memory until collected.
func (u *credentialUseCase) readPassword(ctx context.Context, message string) ([]byte, error) {
	var (
		password []byte
		err      error
	)
	if sp, ok := u.prompter.(prompt.SecretPrompter); ok {
		password, err = sp.PromptSecret(ctx, message)
	} else {
		var answer string
		answer, err = u.prompter.Prompt(ctx, message, true)
		password = []byte(answer)
	}
	if err != nil {
		memguard.WipeBytes(password)
		if errors.Is(err, prompt.ErrCancelled) {
			return nil, credstoreDomain.ErrEmptyPassword
		}
		return nil, err
	}
	if len(bytes.TrimSpace(password)) == 0 {
		memguard.WipeBytes(password)
		return nil, credstoreDomain.ErrEmptyPassword
	}
	return password, nil
}

// askCacheDuration never fails: no answer means no cache.
func (u *credentialUseCase) askCacheDuration(ctx context.Context) credstoreDomain.CacheDuration {
	answer, err := u.prompter.Prompt(ctx, cachePrompt, false)
	if err != nil {
		u.logger.Debug("no cache duration chosen", slog.String("error", err.Error()))
		return credstoreDomain.NoCache
	}
	return credstoreDomain.ParseCacheDuration(answer)
}

// release returns g after a successful operation. Fresh keys are kept in memory and
// newly derived ones are offered to the disk cache.
func (u *credentialUseCase) release(ctx context.Context, g *grant) {
	if !g.fresh {
		g.buf.Destroy()
		return
	}

	if g.derived {
		if err := u.cache.Persist(ctx, g.buf.Bytes(), g.cache.Duration); err != nil {
			u.logger.Warn("failed to persist key cache", slog.String("error", err.Error()))
		}
	}
	u.memKey.keep(g.buf)
}

func (u *credentialUseCase) clearKeys(ctx context.Context) error {
	u.memKey.clear()
	return u.cache.Clear(ctx)
}

func validateName(name string) error {
	if err := customValidation.NotBlank.Validate(name); err != nil || name == "" {
		return credstoreDomain.ErrInvalidSecretName
	}
	return nil
}

// NewCredentialUseCase creates the credential store facade.
func NewCredentialUseCase(
	store StoreManager,
	cache KeyCache,
	deriver cryptoService.KeyDeriver,
	prompter prompt.Prompter,
	logger *slog.Logger,
) CredentialUseCase {
	return &credentialUseCase{
		store:    store,
		cache:    cache,
		deriver:  deriver,
		prompter: prompter,
		logger:   logger,
		newSalt:  cryptoService.GenerateSalt,
	}
}
