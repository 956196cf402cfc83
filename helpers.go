package main

import (
	"os"
	"strings"
)

// saveToFile writes content to a file
func saveToFile(filename, content string) error {
	return os.WriteFile(filename, []byte(content), 0600)
}

// splitLines splits editor content into logical lines, normalizing Windows
// line endings
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// clamp bounds v to [lo, hi]
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// isWordRune reports whether r belongs to a \w word
func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
