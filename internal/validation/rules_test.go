package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

func TestNoWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "no whitespace",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "leading whitespace",
			input:     " validstring",
			shouldErr: true,
		},
		{
			name:      "trailing whitespace",
			input:     "validstring ",
			shouldErr: true,
		},
		{
			name:      "both leading and trailing",
			input:     " validstring ",
			shouldErr: true,
		},
		{
			name:      "internal spaces allowed",
			input:     "valid string",
			shouldErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NoWhitespace.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNotBlank(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{
			name:      "valid string",
			input:     "validstring",
			shouldErr: false,
		},
		{
			name:      "only spaces",
			input:     "   ",
			shouldErr: true,
		},
		{
			name:      "only tabs",
			input:     "\t\t",
			shouldErr: true,
		},
		{
			name:      "only newlines",
			input:     "\n\n",
			shouldErr: true,
		},
		{
			name:      "mixed whitespace",
			input:     " \t\n ",
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotBlank.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWrapValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "nil error returns nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "wraps validation error",
			err:      assert.AnError,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := WrapValidationError(tt.err)
			if tt.expected {
				assert.Error(t, result)
				assert.Contains(t, result.Error(), "invalid input")
			} else {
				assert.NoError(t, result)
			}
		})
	}
}

func TestWrapValidationErrorAs(t *testing.T) {
	sentinel := apperrors.Wrap(apperrors.ErrInvalidInput, "secret name must not be blank")

	assert.NoError(t, WrapValidationErrorAs(sentinel, nil))

	err := WrapValidationErrorAs(sentinel, NotBlank.Validate("  "))
	assert.ErrorIs(t, err, sentinel)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "must not be blank")
}

func TestHex(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "lowercase hex", input: "deadbeef"},
		{name: "uppercase hex", input: "DEADBEEF"},
		{name: "odd length", input: "abc", shouldErr: true},
		{name: "non hex characters", input: "zz", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Hex.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		shouldErr bool
	}{
		{name: "plain name", input: "auth-store.json"},
		{name: "dot file", input: ".session_key"},
		{name: "relative path", input: "sub/auth-store.json", shouldErr: true},
		{name: "absolute path", input: "/etc/passwd", shouldErr: true},
		{name: "parent directory", input: "..", shouldErr: true},
		{name: "backslash", input: `a\b`, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FileName.Validate(tt.input)
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	assert.NoError(t, JSON.Validate(`{"token":"abc"}`))
	assert.NoError(t, JSON.Validate([]byte(`"plain string"`)))
	assert.NoError(t, JSON.Validate(json.RawMessage(`42`)))
	assert.Error(t, JSON.Validate(`{"token":`))
	assert.Error(t, JSON.Validate([]byte(`not json`)))
	assert.Error(t, JSON.Validate(``))
	assert.Error(t, JSON.Validate(42))
}
