package resumeutil

import "strings"

// FormatSuggestions renders generative-text candidates as display
// blocks separated by blank lines. Candidates are trimmed; empty ones
// are dropped.
func FormatSuggestions(candidates []string) string {
	var b strings.Builder
	n := 0
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		n++
		if n > 1 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.TrimRight(candidate, "\n"))
	}
	return b.String()
}

// FormatBullets renders generative-text candidates as "- " bullet
// lines, one per candidate, for pasting into a work summary.
func FormatBullets(candidates []string) string {
	var lines []string
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(candidate), "-*• "))
		if candidate == "" {
			continue
		}
		lines = append(lines, "- "+candidate)
	}
	return strings.Join(lines, "\n")
}
