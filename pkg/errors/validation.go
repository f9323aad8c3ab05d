package errors

import (
	"math"
	"slices"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidOptions, "%s must be a finite number", name)
	}
	return nil
}

// ValidateNonNegative rejects non-finite and negative values.
func ValidateNonNegative(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidOptions, "%s must not be negative (got %g)", name, v)
	}
	return nil
}

// ValidatePositive rejects non-finite, zero and negative values.
func ValidatePositive(name string, v float64) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidOptions, "%s must be positive (got %g)", name, v)
	}
	return nil
}

// ValidateUnit rejects values outside [0, 1].
func ValidateUnit(name string, v float64) error {
	if err := ValidateNonNegative(name, v); err != nil {
		return err
	}
	if v > 1 {
		return New(ErrCodeInvalidOptions, "%s must be within [0, 1] (got %g)", name, v)
	}
	return nil
}

// ValidateOneOf checks that v is one of allowed (case-sensitive) and
// reports failures with the given code.
func ValidateOneOf(code Code, name, v string, allowed ...string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return New(code, "invalid %s: %q (must be one of: %s)", name, v, strings.Join(allowed, ", "))
}

// ValidatePath validates an output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}
