package errors

import (
	"strings"
	"unicode"
)

// ValidateCourseName validates a course display name for safety and
// correctness. Course names are used as join keys against external data
// sources and appear verbatim in cache keys and URLs, so the rules are
// intentionally conservative:
//   - No empty names
//   - No control characters or null bytes
//   - Maximum length of 256 characters
func ValidateCourseName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCourse, "course name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidCourse, "course name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCourse, "course name contains invalid control characters")
		}
	}

	if strings.Contains(name, "\x00") {
		return New(ErrCodeInvalidCourse, "course name contains a null byte")
	}

	return nil
}

// ValidateTermKey validates the shape of a term key before it is used in
// a request path. It does not check that data exists for the term; it
// only rejects keys that could not name a term at all.
func ValidateTermKey(key string) error {
	if key == "" {
		return New(ErrCodeInvalidTerm, "term key cannot be empty")
	}
	if len(key) != 4 {
		return New(ErrCodeInvalidTerm, "term key must be 4 characters (e.g., FA24): %q", key)
	}
	for _, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return New(ErrCodeInvalidTerm, "term key contains invalid characters: %q", key)
		}
	}
	return nil
}
