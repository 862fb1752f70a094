package domain

import "strings"

// NormalizeHumanName trims leading/trailing whitespace and collapses internal whitespace runs.
// It is used for passenger and conductor names produced by the seed generator.
func NormalizeHumanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
