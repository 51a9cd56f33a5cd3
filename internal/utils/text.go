package utils

import "strings"

// TruncateRunes returns the first limit runes of s. A non-positive limit
// returns s unchanged.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return s
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}

	return s
}

// TruncateForLog trims s and shortens it to limit runes, appending an ellipsis
// when something was cut.
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}

	s = strings.TrimSpace(s)
	short := TruncateRunes(s, limit)
	if len(short) == len(s) {
		return s
	}
	return short + "..."
}
