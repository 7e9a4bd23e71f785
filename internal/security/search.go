// Package security provides SQL safety helpers for Atlas
package security

import (
	"regexp"
	"strings"
)

// ValidIdentifierRegex matches valid SQL identifiers
// Only allows lowercase letters, digits, and underscores, starting with a letter or underscore
var ValidIdentifierRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// ValidIdentifier reports whether a column name is safe to interpolate
func ValidIdentifier(name string) bool {
	return name != "" && len(name) <= 63 && ValidIdentifierRegex.MatchString(name)
}

// EscapeLikePattern escapes special characters in LIKE patterns
func EscapeLikePattern(pattern string) string {
	// Escape the special characters used in SQL LIKE: %, _, and \
	pattern = strings.ReplaceAll(pattern, `\`, `\\`)
	pattern = strings.ReplaceAll(pattern, `%`, `\%`)
	pattern = strings.ReplaceAll(pattern, `_`, `\_`)
	return pattern
}

// SearchCondition builds a case-insensitive substring condition over the
// given columns, with positional placeholders so it works on every backing
// driver. Columns that fail identifier validation are skipped.
// Returns an empty condition when nothing can be searched.
func SearchCondition(columns []string, searchTerm string) (string, []interface{}) {
	if len(columns) == 0 || searchTerm == "" {
		return "", nil
	}

	param := "%" + strings.ToLower(EscapeLikePattern(searchTerm)) + "%"

	conditions := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		if !ValidIdentifier(col) {
			continue
		}
		conditions = append(conditions, `LOWER(`+col+`) LIKE ? ESCAPE '\'`)
		args = append(args, param)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "(" + strings.Join(conditions, " OR ") + ")", args
}
