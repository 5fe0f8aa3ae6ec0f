package metrics

import "strings"

// norm keeps label cardinality sane: lowercase, no surrounding spaces, and an
// explicit bucket for empty values.
func norm(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}
