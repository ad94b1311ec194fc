package utils

import "strings"

// NormalizeKey folds a natural-key component for comparison: surrounding
// whitespace is insignificant and matching is case-insensitive.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
