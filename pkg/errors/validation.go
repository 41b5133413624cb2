package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// designExtensions lists the file extensions accepted as design sources.
var designExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
}

// ValidateInputPath validates a design file path given on the command line
// or in an API request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 1024 characters
//   - No null bytes or control characters
//   - Extension must be .json, .yaml or .yml (case-insensitive) when present
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "input path cannot be empty")
	}

	const maxPathLength = 1024
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "input path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "input path contains invalid characters")
		}
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != "" && !designExtensions[ext] {
		return New(ErrCodeUnsupported, "unsupported design file extension %q (must be .json, .yaml or .yml)", ext)
	}

	return nil
}

// ValidateExtreme validates the substitute magnitude for "extend to
// infinity" cut sentinels. It must be a finite positive number.
func ValidateExtreme(extreme float64) error {
	if math.IsNaN(extreme) || math.IsInf(extreme, 0) {
		return New(ErrCodeInvalidExtreme, "extreme must be finite, got %v", extreme)
	}
	if extreme <= 0 {
		return New(ErrCodeInvalidExtreme, "extreme must be positive, got %v", extreme)
	}
	return nil
}

// ValidateFinite checks that a named design value is a finite number.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidDesign, "%s must be a finite number, got %v", field, v)
	}
	return nil
}

// ValidatePositive checks that a named design value is finite and > 0.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidDesign, "%s must be positive, got %v", field, v)
	}
	return nil
}

// ValidateNonNegative checks that a named design value is finite and >= 0.
func ValidateNonNegative(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidDesign, "%s must not be negative, got %v", field, v)
	}
	return nil
}
