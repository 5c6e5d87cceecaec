// Package utils provides shared text and logging helpers.
package utils

import "strings"

// Truncate returns s cut to maxLen runes, with "..." appended when anything
// was cut. If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// PadRight pads s with spaces to width runes. Strings already at or past
// width are returned unchanged.
func PadRight(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}
