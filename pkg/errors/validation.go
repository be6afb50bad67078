package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds graph, node and edge identifiers accepted from outside.
const maxIDLength = 128

// ValidateID validates an identifier received from an external caller
// (URL path segment, CLI argument, storage key).
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "identifier contains invalid characters")
		}
	}

	if strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "identifier cannot contain path components: %q", id)
	}

	return nil
}

// ValidateName validates a display name for a graph or node.
// Names may contain spaces but no control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}
