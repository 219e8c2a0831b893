package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxPathLength bounds user-supplied output paths.
const maxPathLength = 500

// ValidatePath validates an output path given on the command line or in config.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateFilename validates a bare output filename, such as the one sent in a
// Content-Disposition header. It must be a simple basename.
func ValidateFilename(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}

	if strings.ContainsAny(name, "/\\") || filepath.Base(name) != name {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if name == "." || name == ".." || strings.HasPrefix(name, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	if strings.ContainsAny(name, `"`) {
		return New(ErrCodeInvalidPath, "filename cannot contain quotes")
	}

	return nil
}
