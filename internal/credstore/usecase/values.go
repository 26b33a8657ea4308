package usecase

import (
	"context"
	"encoding/json"

	credstoreDomain "github.com/allisson/dspace-credstore/internal/credstore/domain"
	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// GetValue reads name and decodes it into T.
func GetValue[T any](ctx context.Context, uc CredentialUseCase, name string) (T, bool, error) {
	var value T
	raw, found, err := uc.Get(ctx, name)
	if err != nil || !found {
		return value, found, err
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, true, apperrors.Wrapf(credstoreDomain.ErrInvalidSecretValue, "decode %q: %v", name, err)
	}
	return value, true, nil
}

// SetValue encodes value as JSON and stores it under name.
func SetValue[T any](ctx context.Context, uc CredentialUseCase, name string, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.Wrapf(credstoreDomain.ErrInvalidSecretValue, "encode %q: %v", name, err)
	}
	return uc.Set(ctx, name, raw)
}
