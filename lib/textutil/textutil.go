package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeName lower-cases a name and removes all whitespace from it.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	return whitespaceRegex.ReplaceAllString(name, "")
}

// IsBlank reports whether s has no non-whitespace characters.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
