// Package resumeutil provides pure helpers over the resume data model:
// title generation, date and duration math, data cleaning, keyword
// extraction, export rendering, and content statistics. Nothing in
// this package performs I/O.
package resumeutil

import (
	"fmt"

	"github.com/jonathan/resume-sync/internal/types"
)

// defaultTitle is used when no personal name is available.
const defaultTitle = "Untitled Resume"

// GenerateUniqueTitle builds "{First} {Last} Resume" (or "Untitled
// Resume") and appends " (n)" with the smallest n that makes the title
// unused against the supplied set. The result is never a member of
// existingTitles.
func GenerateUniqueTitle(personal types.PersonalDetails, existingTitles []string) string {
	base := defaultTitle
	if personal.FirstName != "" && personal.LastName != "" {
		base = fmt.Sprintf("%s %s Resume", personal.FirstName, personal.LastName)
	}
	return makeUnique(base, existingTitles)
}

func makeUnique(title string, existing []string) string {
	used := make(map[string]bool, len(existing))
	for _, t := range existing {
		used[t] = true
	}

	if !used[title] {
		return title
	}
	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s (%d)", title, counter)
		if !used[candidate] {
			return candidate
		}
	}
}
