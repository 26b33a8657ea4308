// Package mocks provides mock implementations of the credential store interfaces.
package mocks

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
)

// MockCredentialUseCase is a mock implementation of CredentialUseCase for testing.
type MockCredentialUseCase struct {
	mock.Mock
}

// Get mocks the Get method of CredentialUseCase.
func (m *MockCredentialUseCase) Get(ctx context.Context, name string) (json.RawMessage, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(json.RawMessage), args.Bool(1), args.Error(2)
}

// Set mocks the Set method of CredentialUseCase.
func (m *MockCredentialUseCase) Set(ctx context.Context, name string, value json.RawMessage) error {
	args := m.Called(ctx, name, value)
	return args.Error(0)
}

// Delete mocks the Delete method of CredentialUseCase.
func (m *MockCredentialUseCase) Delete(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method of CredentialUseCase.
func (m *MockCredentialUseCase) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// ClearCachedKey mocks the ClearCachedKey method of CredentialUseCase.
func (m *MockCredentialUseCase) ClearCachedKey(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Reset mocks the Reset method of CredentialUseCase.
func (m *MockCredentialUseCase) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// IsInitialized mocks the IsInitialized method of CredentialUseCase.
func (m *MockCredentialUseCase) IsInitialized(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// Status mocks the Status method of CredentialUseCase.
func (m *MockCredentialUseCase) Status(ctx context.Context) (*credstoreDomain.StoreStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*credstoreDomain.StoreStatus), args.Error(1)
}

// MockKeyCache is a mock implementation of KeyCache for testing.
type MockKeyCache struct {
	mock.Mock
}

// TryLoad mocks the TryLoad method of KeyCache.
func (m *MockKeyCache) TryLoad(ctx context.Context) ([]byte, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

// Persist mocks the Persist method of KeyCache. key may live in guarded memory that is
// released after the call, so the recorded argument is a copy.
func (m *MockKeyCache) Persist(ctx context.Context, key []byte, duration time.Duration) error {
	args := m.Called(ctx, bytes.Clone(key), duration)
	return args.Error(0)
}

// Clear mocks the Clear method of KeyCache.
func (m *MockKeyCache) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Peek mocks the Peek method of KeyCache.
func (m *MockKeyCache) Peek(ctx context.Context) (time.Time, bool) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Bool(1)
}
