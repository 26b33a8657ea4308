package usecase

import (
	"context"
	"encoding/json"
	"time"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	"github.com/allisson/dspace-credstore/internal/metrics"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics instrumentation.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.OperationMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.OperationMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *credentialUseCaseWithMetrics) Get(ctx context.Context, name string) (json.RawMessage, bool, error) {
	start := time.Now()
	value, found, err := c.next.Get(ctx, name)
	c.metrics.Record(ctx, "get", time.Since(start), err)
	return value, found, err
}

func (c *credentialUseCaseWithMetrics) Set(ctx context.Context, name string, value json.RawMessage) error {
	start := time.Now()
	err := c.next.Set(ctx, name, value)
	c.metrics.Record(ctx, "set", time.Since(start), err)
	return err
}

func (c *credentialUseCaseWithMetrics) Delete(ctx context.Context, name string) (bool, error) {
	start := time.Now()
	deleted, err := c.next.Delete(ctx, name)
	c.metrics.Record(ctx, "delete", time.Since(start), err)
	return deleted, err
}

func (c *credentialUseCaseWithMetrics) List(ctx context.Context) ([]string, error) {
	start := time.Now()
	names, err := c.next.List(ctx)
	c.metrics.Record(ctx, "list", time.Since(start), err)
	return names, err
}

func (c *credentialUseCaseWithMetrics) ClearCachedKey(ctx context.Context) error {
	start := time.Now()
	err := c.next.ClearCachedKey(ctx)
	c.metrics.Record(ctx, "clear_cached_key", time.Since(start), err)
	return err
}

func (c *credentialUseCaseWithMetrics) Reset(ctx context.Context) error {
	start := time.Now()
	err := c.next.Reset(ctx)
	c.metrics.Record(ctx, "reset", time.Since(start), err)
	return err
}

// IsInitialized is not recorded.
func (c *credentialUseCaseWithMetrics) IsInitialized(ctx context.Context) (bool, error) {
	return c.next.IsInitialized(ctx)
}

func (c *credentialUseCaseWithMetrics) Status(ctx context.Context) (*credstoreDomain.StoreStatus, error) {
	start := time.Now()
	status, err := c.next.Status(ctx)
	c.metrics.Record(ctx, "status", time.Since(start), err)
	return status, err
}
