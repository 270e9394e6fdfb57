package openai

import "strings"

// cleanName collapses internal whitespace runs and trims the ends. Model
// output sometimes pads names with newlines or doubled spaces.
func cleanName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// snippet truncates s for log output.
func snippet(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
