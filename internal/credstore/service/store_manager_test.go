package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	"github.com/allisson/dspace-credstore/internal/credstore/repository"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
)

const storePath = "/home/user/.dspace-cli/auth-store.json"

func newTestStoreManager(fs afero.Fs, alg cryptoDomain.Algorithm) *StoreManager {
	return NewStoreManager(
		repository.NewStoreFileRepository(fs, storePath),
		cryptoService.NewAEADManager(),
		alg,
		cryptoDomain.DefaultKDFIterations,
		discardLogger(),
	)
}

func TestStoreManager_SaveAndDecrypt(t *testing.T) {
	ctx := context.Background()

	for _, alg := range cryptoDomain.SupportedAlgorithms() {
		t.Run(string(alg), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			manager := newTestStoreManager(fs, alg)
			salt, err := cryptoService.GenerateSalt()
			require.NoError(t, err)

			header := manager.NewHeader(salt)
			assert.Equal(t, alg, header.Algorithm)
			assert.Equal(t, credstoreDomain.CurrentVersion, header.Version)

			secrets := credstoreDomain.SecretMap{
				"token":   json.RawMessage(`{"value":"abc","expires":1700000000}`),
				"profile": json.RawMessage(`"default"`),
			}
			saved, err := manager.Save(ctx, header, secrets, testKey())
			require.NoError(t, err)

			exists, err := manager.Exists(ctx)
			require.NoError(t, err)
			assert.True(t, exists)

			loaded, err := manager.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, saved, loaded)

			got, err := manager.DecryptAll(loaded, testKey())
			require.NoError(t, err)
			assert.JSONEq(t, `{"value":"abc","expires":1700000000}`, string(got["token"]))
			assert.JSONEq(t, `"default"`, string(got["profile"]))
		})
	}
}

func TestStoreManager_FreshNonceKeepsSalt(t *testing.T) {
	ctx := context.Background()
	manager := newTestStoreManager(afero.NewMemMapFs(), cryptoDomain.AESGCM)
	salt, err := cryptoService.GenerateSalt()
	require.NoError(t, err)
	header := manager.NewHeader(salt)

	first, err := manager.Save(ctx, header, credstoreDomain.SecretMap{"a": json.RawMessage(`1`)}, testKey())
	require.NoError(t, err)
	second, err := manager.Save(ctx, first.StoreHeader, credstoreDomain.SecretMap{"a": json.RawMessage(`1`)}, testKey())
	require.NoError(t, err)

	assert.Equal(t, first.Salt, second.Salt)
	assert.NotEqual(t, first.Nonce, second.Nonce)
	assert.NotEqual(t, first.Ciphertext, second.Ciphertext)
}

func TestStoreManager_DecryptAll(t *testing.T) {
	ctx := context.Background()
	manager := newTestStoreManager(afero.NewMemMapFs(), cryptoDomain.AESGCM)
	salt, err := cryptoService.GenerateSalt()
	require.NoError(t, err)
	saved, err := manager.Save(ctx, manager.NewHeader(salt), credstoreDomain.SecretMap{
		"token": json.RawMessage(`"abc"`),
	}, testKey())
	require.NoError(t, err)

	t.Run("wrong key", func(t *testing.T) {
		wrong := testKey()
		wrong[0] ^= 0xff
		_, err := manager.DecryptAll(saved, wrong)
		assert.ErrorIs(t, err, credstoreDomain.ErrAuthenticationFailed)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		tampered := *saved
		tampered.Ciphertext = append([]byte(nil), saved.Ciphertext...)
		tampered.Ciphertext[0] ^= 0x01
		_, err := manager.DecryptAll(&tampered, testKey())
		assert.ErrorIs(t, err, credstoreDomain.ErrAuthenticationFailed)
	})

	t.Run("tampered header", func(t *testing.T) {
		tampered := *saved
		tampered.Iterations++
		_, err := manager.DecryptAll(&tampered, testKey())
		assert.ErrorIs(t, err, credstoreDomain.ErrAuthenticationFailed)
	})

	t.Run("payload is not an object", func(t *testing.T) {
		cipher, err := cryptoService.NewAESGCM(testKey())
		require.NoError(t, err)
		ciphertext, nonce, err := cipher.Encrypt([]byte(`["not","a","map"]`), saved.AAD())
		require.NoError(t, err)

		file := &credstoreDomain.StoreFile{StoreHeader: saved.StoreHeader, Nonce: nonce, Ciphertext: ciphertext}
		_, err = manager.DecryptAll(file, testKey())
		assert.ErrorIs(t, err, credstoreDomain.ErrMalformedStoreFile)
	})
}

func TestStoreManager_LegacyUpgrade(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	manager := newTestStoreManager(fs, cryptoDomain.ChaCha20)

	// Legacy files were AES-GCM with no additional data.
	cipher, err := cryptoService.NewAESGCM(testKey())
	require.NoError(t, err)
	ciphertext, nonce, err := cipher.Encrypt([]byte(`{"token":"legacy"}`), nil)
	require.NoError(t, err)

	legacy := `{"salt":"0011","iv":"` + hexString(nonce) + `","ciphertext":"` + hexString(ciphertext) + `"}`
	require.NoError(t, afero.WriteFile(fs, storePath, []byte(legacy), 0o600))

	file, err := manager.Load(ctx)
	require.NoError(t, err)
	secrets, err := manager.DecryptAll(file, testKey())
	require.NoError(t, err)
	assert.JSONEq(t, `"legacy"`, string(secrets["token"]))

	upgraded, err := manager.Save(ctx, file.StoreHeader, secrets, testKey())
	require.NoError(t, err)
	assert.Equal(t, credstoreDomain.CurrentVersion, upgraded.Version)
	assert.Equal(t, cryptoDomain.AESGCM, upgraded.Algorithm, "existing stores keep their algorithm")
	assert.Equal(t, cryptoDomain.LegacyKDFIterations, upgraded.Iterations)
	assert.Equal(t, []byte{0x00, 0x11}, upgraded.Salt)

	reloaded, err := manager.Load(ctx)
	require.NoError(t, err)
	_, err = manager.DecryptAll(reloaded, testKey())
	assert.NoError(t, err)
}

func TestStoreManager_SaveRejectsEmptySalt(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	manager := newTestStoreManager(fs, cryptoDomain.AESGCM)

	_, err := manager.Save(ctx, manager.NewHeader(nil), credstoreDomain.SecretMap{}, testKey())
	assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKDFParams)

	exists, err := manager.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStoreManager_Remove(t *testing.T) {
	ctx := context.Background()
	manager := newTestStoreManager(afero.NewMemMapFs(), cryptoDomain.AESGCM)
	salt, err := cryptoService.GenerateSalt()
	require.NoError(t, err)
	_, err = manager.Save(ctx, manager.NewHeader(salt), nil, testKey())
	require.NoError(t, err)

	require.NoError(t, manager.Remove(ctx))
	exists, err := manager.Exists(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
	require.NoError(t, manager.Remove(ctx))
}
