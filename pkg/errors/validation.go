package errors

import (
	"strings"
	"unicode"
)

// ValidatePath validates an input file path given on the command line or in
// a config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
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

// ValidateSampleName validates a variant-call sample column name.
//
// Sample names follow a fixed convention: a 3-character prefix followed by a
// person or sample identifier. Names must therefore be longer than the prefix
// and may not contain whitespace or control characters.
func ValidateSampleName(name string) error {
	if len(name) <= 3 {
		return New(ErrCodeInvalidInput, "sample name %q is too short", name)
	}
	if strings.IndexFunc(name, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsControl(r)
	}) >= 0 {
		return New(ErrCodeInvalidInput, "sample name %q contains whitespace or control characters", name)
	}
	return nil
}
