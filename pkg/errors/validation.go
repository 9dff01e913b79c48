package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxIDLength bounds record, session and element identifiers.
const maxIDLength = 128

// idRegex matches identifiers accepted in URLs and storage keys.
var idRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateID checks a record or session identifier taken from a URL path.
// Identifiers are non-empty, at most 128 bytes, start with a letter or
// digit, and contain no whitespace, slashes or "..".
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidID, "id contains invalid characters")
		}
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidID, "id cannot contain path traversal sequences (..)")
	}
	if !idRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid id: %q", id)
	}
	return nil
}

// ValidateElementIDs checks that diagram element identifiers are non-empty
// and unique. It returns the first offending identifier in the error.
func ValidateElementIDs(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return New(ErrCodeInvalidDiagram, "element id cannot be empty")
		}
		if seen[id] {
			return New(ErrCodeInvalidDiagram, "duplicate element id: %q", id)
		}
		seen[id] = true
	}
	return nil
}
