package utils

import "strings"

// SQLString escapes s for use inside a single-quoted SQL literal, for the
// table functions and COPY targets that take no bind parameters.
func SQLString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
