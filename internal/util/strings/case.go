package strings

import (
	"strings"
	"unicode"
)

// ToSnakeCase converts CamelCase to snake_case
// Handles acronyms properly (HTTPRequest -> http_request)
func ToSnakeCase(s string) string {
	var result strings.Builder
	runes := []rune(s)

	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				if unicode.IsLower(prev) {
					result.WriteRune('_')
				} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
					result.WriteRune('_')
				}
			}
			result.WriteRune(unicode.ToLower(r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// ToDashCase converts a camel-like name to dash-separated form.
// The leading character is lower-cased; every later upper-case letter is
// lower-cased and prefixed with a dash (createdAt -> created-at).
// Acronyms are not grouped: userID -> user-i-d.
func ToDashCase(s string) string {
	if s == "" {
		return s
	}

	var result strings.Builder
	result.Grow(len(s) + 4)

	for i, r := range s {
		if i == 0 {
			result.WriteRune(unicode.ToLower(r))
			continue
		}
		if unicode.IsUpper(r) {
			result.WriteRune('-')
			result.WriteRune(unicode.ToLower(r))
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}
