package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxLayoutBytes bounds the size of a single layout description.
// Real layouts are a few kilobytes; anything near this limit is not a keyboard.
const MaxLayoutBytes = 4 << 20

// ValidateLayoutData performs cheap sanity checks on raw layout input before
// it is handed to the parser.
func ValidateLayoutData(data []byte) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return New(ErrCodeInvalidLayout, "layout is empty")
	}
	if len(data) > MaxLayoutBytes {
		return New(ErrCodeTooLarge, "layout too large (%d bytes, max %d)", len(data), MaxLayoutBytes)
	}
	return nil
}

// ValidateOutputPath validates a path the CLI is about to write to.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name an existing directory component like "." or ".."
func ValidateOutputPath(path string) error {
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

	switch filepath.Base(path) {
	case ".", "..", string(filepath.Separator):
		return New(ErrCodeInvalidPath, "path %q does not name a file", path)
	}

	return nil
}

// ValidateName validates a layout name supplied over the network. Names end
// up in cache keys and HTML headings, so they are kept short and printable.
func ValidateName(name string) error {
	if name == "" {
		return nil
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidInput, "name cannot contain path separators")
	}
	return nil
}
