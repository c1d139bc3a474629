package validation

import "strings"

// Violations maps field names to violation codes for user-visible messages.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violation message for flash-style display, or "".
func (v Violations) First() string {
	for field, code := range v {
		return field + ": " + code
	}
	return ""
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func MaxLen(field, value string, limit int, v Violations) {
	if len(value) > limit {
		v[field] = "too_long"
	}
}

// Username rejects identities with surrounding whitespace ambiguity or
// characters that would not survive a URL path segment.
func Username(field, value string, v Violations) {
	if strings.TrimSpace(value) != value {
		v[field] = "has_surrounding_space"
		return
	}
	if strings.ContainsAny(value, " /\\?#%") {
		v[field] = "invalid_characters"
	}
}
