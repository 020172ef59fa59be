package render

import (
	"regexp"
	"strings"
)

var bareIdentifier = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_]*$`)

// IsBareIdentifier reports whether s can be written without backticks.
func IsBareIdentifier(s string) bool {
	return bareIdentifier.MatchString(s)
}

// Escape returns s, wrapped in backticks only if it is not a bare
// identifier.
func Escape(s string) string {
	if IsBareIdentifier(s) {
		return s
	}
	return Quote(s)
}

// Quote wraps s in backticks, doubling any backtick inside it.
func Quote(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}
