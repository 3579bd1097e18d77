package errors

import (
	"strings"
	"unicode"
)

const (
	maxIDLength   = 128
	maxNameLength = 256
)

// ValidateID checks an identifier taken from user input, such as a graph or
// node ID in a URL. IDs are non-empty, short, and free of whitespace and
// control characters.
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s ID cannot be empty", kind)
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s ID too long (max %d characters)", kind, maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s ID contains invalid characters", kind)
		}
	}
	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return New(ErrCodeInvalidInput, "%s ID cannot contain path characters", kind)
	}
	return nil
}

// ValidateName checks a display name, such as a graph name. Names may be
// empty but must not contain control characters.
func ValidateName(name string) error {
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}
