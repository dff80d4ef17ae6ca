// Package util holds small formatting helpers shared by the CLI and dashboard.
package util

import "strings"

// Pluralize returns singular if count is 1, otherwise plural.
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}

// JoinOrDefault joins items with ", " or returns def for an empty slice.
func JoinOrDefault(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}
