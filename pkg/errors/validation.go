package errors

import (
	"math"
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFinite rejects NaN and infinite values for the named property.
func ValidateFinite(name string, v float32) error {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite, got %v", name, v)
	}
	return nil
}

// ValidateNonNegative rejects negative, NaN and infinite values.
func ValidateNonNegative(name string, v float32) error {
	if err := ValidateFinite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative, got %v", name, v)
	}
	return nil
}

// ValidateDocumentPath validates a document path given on the command line
// or to the server. It must be non-empty, free of control characters and
// carry one of the supported extensions.
func ValidateDocumentPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "document path cannot be empty")
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "document path contains invalid control characters")
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".yaml", ".yml", ".json":
		return nil
	default:
		return New(ErrCodeInvalidFormat, "unsupported document extension %q (want .toml, .yaml or .json)", filepath.Ext(path))
	}
}
