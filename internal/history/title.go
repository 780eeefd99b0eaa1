package history

import (
	"strings"
	"unicode/utf8"
)

const (
	// MaxTitleLength is the maximum length for a session title
	MaxTitleLength = 60
)

// GenerateTitle derives a session title from the first user message. Photo
// questions without recognized text fall back to a fixed label.
func GenerateTitle(text string) string {
	if strings.TrimSpace(text) == "" {
		return "Photo question"
	}
	return truncateTitle(text)
}

// truncateTitle truncates a string to MaxTitleLength, breaking at word boundaries
func truncateTitle(s string) string {
	// Normalize whitespace by splitting on any whitespace and rejoining
	s = strings.Join(strings.Fields(s), " ")

	if utf8.RuneCountInString(s) <= MaxTitleLength {
		return s
	}

	// Truncate to MaxTitleLength runes
	runes := []rune(s)
	truncated := string(runes[:MaxTitleLength])

	// Try to break at the last word boundary
	if lastSpace := strings.LastIndex(truncated, " "); lastSpace > MaxTitleLength/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimSpace(truncated) + "..."
}
