package errors

import (
	"unicode"
)

const (
	maxIdentifierLen = 128
	maxPathLen       = 500
)

// ValidateIdentifier checks a node, element or wire id taken from a
// document. Empty ids are accepted because the converters assign their own.
func ValidateIdentifier(id string) error {
	return checkText(ErrCodeInvalidInput, "identifier", id, maxIdentifierLen)
}

// ValidatePath checks an output path given on the command line.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	return checkText(ErrCodeInvalidPath, "path", path, maxPathLen)
}

// checkText rejects values longer than limit bytes or holding control
// characters, NUL included.
func checkText(code Code, what, s string, limit int) error {
	if len(s) > limit {
		return New(code, "%s too long (max %d characters)", what, limit)
	}
	for i, r := range s {
		if unicode.IsControl(r) {
			return New(code, "%s has control character %U at byte %d", what, r, i)
		}
	}
	return nil
}
