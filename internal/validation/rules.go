// Package validation provides custom validation rules for configuration and user input.
package validation

import (
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/dspace-credstore/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	return WrapValidationErrorAs(apperrors.ErrInvalidInput, err)
}

// WrapValidationErrorAs wraps validation errors under a more specific sentinel.
func WrapValidationErrorAs(sentinel, err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(sentinel, err.Error())
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// Hex validates that a string is valid hex-encoded data.
var Hex = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := hex.DecodeString(s)
		return err == nil
	},
	validation.NewError("validation_hex", "must be valid hex-encoded data"),
)

// FileName validates a bare file name with no directory component.
var FileName = validation.NewStringRuleWithError(
	func(s string) bool {
		return s != "." && s != ".." && filepath.Base(s) == s && !strings.ContainsAny(s, `/\`)
	},
	validation.NewError("validation_file_name", "must be a file name without directories"),
)

// JSON validates that a byte slice or string holds exactly one JSON value.
var JSON = validation.By(func(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	case string:
		data = []byte(v)
	default:
		return validation.NewError("validation_json_type", "must be a string or byte slice")
	}
	if !json.Valid(data) {
		return validation.NewError("validation_json", "must be valid JSON")
	}
	return nil
})
