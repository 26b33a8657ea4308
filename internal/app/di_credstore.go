package app

import (
	"context"
	"fmt"
	"sync"

	credstoreRepository "github.com/allisson/dspace-credstore/internal/credstore/repository"
	credstoreService "github.com/allisson/dspace-credstore/internal/credstore/service"
	credstoreUseCase "github.com/allisson/dspace-credstore/internal/credstore/usecase"
	cryptoDomain "github.com/allisson/dspace-credstore/internal/crypto/domain"
	cryptoService "github.com/allisson/dspace-credstore/internal/crypto/service"
	"github.com/allisson/dspace-credstore/internal/metrics"
)

// credstoreComponents groups the lazily built credential store dependencies.
type credstoreComponents struct {
	keeper            cryptoDomain.KMSKeeper
	storeManager      *credstoreService.StoreManager
	keyCache          *credstoreService.KeyCache
	operationMetrics  metrics.OperationMetrics
	credentialUseCase credstoreUseCase.CredentialUseCase

	keeperInit            sync.Once
	storeManagerInit      sync.Once
	keyCacheInit          sync.Once
	operationMetricsInit  sync.Once
	credentialUseCaseInit sync.Once
}

// KMSKeeper returns the keeper wrapping the cached key, or nil when none is configured.
func (c *Container) KMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	var err error
	c.keeperInit.Do(func() {
		c.keeper, err = c.initKMSKeeper(ctx)
		if err != nil {
			c.initErrors["keeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keeper"]; exists {
		return nil, storedErr
	}
	return c.keeper, nil
}

// StoreManager returns the encrypted store file manager.
func (c *Container) StoreManager() (*credstoreService.StoreManager, error) {
	var err error
	c.storeManagerInit.Do(func() {
		c.storeManager, err = c.initStoreManager()
		if err != nil {
			c.initErrors["storeManager"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["storeManager"]; exists {
		return nil, storedErr
	}
	return c.storeManager, nil
}

// KeyCache returns the disk-backed key cache.
func (c *Container) KeyCache(ctx context.Context) (*credstoreService.KeyCache, error) {
	var err error
	c.keyCacheInit.Do(func() {
		c.keyCache, err = c.initKeyCache(ctx)
		if err != nil {
			c.initErrors["keyCache"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyCache"]; exists {
		return nil, storedErr
	}
	return c.keyCache, nil
}

// OperationMetrics returns the operation metrics, a no-op when metrics are disabled.
func (c *Container) OperationMetrics() (metrics.OperationMetrics, error) {
	var err error
	c.operationMetricsInit.Do(func() {
		c.operationMetrics, err = c.initOperationMetrics()
		if err != nil {
			c.initErrors["operationMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operationMetrics"]; exists {
		return nil, storedErr
	}
	return c.operationMetrics, nil
}

// CredentialUseCase returns the credential store facade.
func (c *Container) CredentialUseCase(ctx context.Context) (credstoreUseCase.CredentialUseCase, error) {
	var err error
	c.credentialUseCaseInit.Do(func() {
		c.credentialUseCase, err = c.initCredentialUseCase(ctx)
		if err != nil {
			c.initErrors["credentialUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["credentialUseCase"]; exists {
		return nil, storedErr
	}
	return c.credentialUseCase, nil
}

func (c *Container) initKMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	if c.config.KeyCacheKMSKeyURI == "" {
		return nil, nil
	}
	keeper, err := cryptoService.NewKMSService().OpenKeeper(ctx, c.config.KeyCacheKMSKeyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open key cache keeper: %w", err)
	}
	return keeper, nil
}

func (c *Container) initStoreManager() (*credstoreService.StoreManager, error) {
	algorithm, err := c.config.CipherAlgorithm()
	if err != nil {
		return nil, fmt.Errorf("failed to configure store cipher: %w", err)
	}

	repo := credstoreRepository.NewStoreFileRepository(c.fs, c.config.StorePath())
	return credstoreService.NewStoreManager(
		repo,
		cryptoService.NewAEADManager(),
		algorithm,
		c.config.KDFIterations,
		c.Logger(),
	), nil
}

func (c *Container) initKeyCache(ctx context.Context) (*credstoreService.KeyCache, error) {
	keeper, err := c.KMSKeeper(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get keeper for key cache: %w", err)
	}

	repo := credstoreRepository.NewKeyCacheRepository(c.fs, c.config.KeyCachePath())
	return credstoreService.NewKeyCache(repo, keeper, c.Prompter(), c.Logger(), nil), nil
}

func (c *Container) initOperationMetrics() (metrics.OperationMetrics, error) {
	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, err
	}
	if provider == nil {
		return metrics.NewNoOpOperationMetrics(), nil
	}
	return metrics.NewOperationMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
}

func (c *Container) initCredentialUseCase(ctx context.Context) (credstoreUseCase.CredentialUseCase, error) {
	storeManager, err := c.StoreManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get store manager for credential use case: %w", err)
	}

	keyCache, err := c.KeyCache(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key cache for credential use case: %w", err)
	}

	operationMetrics, err := c.OperationMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics for credential use case: %w", err)
	}

	useCase := credstoreUseCase.NewCredentialUseCase(
		storeManager,
		keyCache,
		cryptoService.NewPBKDF2Deriver(),
		c.Prompter(),
		c.Logger(),
	)
	return credstoreUseCase.NewCredentialUseCaseWithMetrics(useCase, operationMetrics), nil
}
