package errors

import (
	"strings"
	"unicode"
)

// ValidateContainerID validates a container identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - No leading/trailing whitespace
//   - Maximum length of 128 characters
//
// Ids are never rewritten to satisfy these rules; a bad id is rejected
// so the caller can pick a new one.
func ValidateContainerID(id string) error {
	if id == "" {
		return New(ErrCodeValidation, "container id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeValidation, "container id too long (max 128 characters)")
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeValidation, "container id cannot have leading or trailing whitespace")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeValidation, "container id contains invalid control characters")
		}
	}

	return nil
}

// ValidateDimension validates a named non-negative dimension or
// coordinate field. The field name is reported back so callers can
// surface which input was malformed.
func ValidateDimension(field string, value int) error {
	if value < 0 {
		return New(ErrCodeInvalidDimension, "%s must be non-negative, got %d", field, value)
	}
	return nil
}

// ValidatePositive validates a named strictly-positive dimension, such
// as the canvas width or height.
func ValidatePositive(field string, value int) error {
	if value < 1 {
		return New(ErrCodeInvalidDimension, "%s must be at least 1, got %d", field, value)
	}
	return nil
}
