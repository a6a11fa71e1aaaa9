package sqlite

import (
	"strings"
)

// likeEscaper escapes the LIKE wildcards so user text is matched literally.
// Queries using it must declare ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// FormatLikePattern wraps text for a case-insensitive substring LIKE match
func FormatLikePattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}

// FormatBoolForDB stores a bool as the 0/1 integer used by is_completed
func FormatBoolForDB(b bool) int {
	if b {
		return 1
	}
	return 0
}

// ParseBoolFromDB reads an is_completed value; any non-zero value is true
func ParseBoolFromDB(v int64) bool {
	return v != 0
}
