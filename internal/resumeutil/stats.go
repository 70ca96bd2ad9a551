package resumeutil

import (
	"sort"
	"strings"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/types"
)

// Stats counts words, characters, and populated sections of a single
// document. Experience years come from the injected clock.
func Stats(doc types.ResumeDocument, clk clock.Clock) types.ResumeStats {
	var stats types.ResumeStats

	textFields := []string{doc.Summary}
	for _, exp := range doc.Experience {
		textFields = append(textFields, exp.WorkSummary)
	}
	for _, edu := range doc.Education {
		textFields = append(textFields, edu.Description)
	}
	for _, project := range doc.Projects {
		textFields = append(textFields, project.ProjectSummary)
	}
	for _, text := range textFields {
		if text == "" {
			continue
		}
		stats.WordCount += len(strings.Fields(text))
		stats.CharacterCount += len(text)
	}

	sections := []bool{
		doc.Personal != (types.PersonalDetails{}),
		strings.TrimSpace(doc.Summary) != "",
		len(doc.Experience) > 0,
		len(doc.Education) > 0,
		len(doc.Skills) > 0,
		len(doc.Projects) > 0,
	}
	for _, populated := range sections {
		if populated {
			stats.SectionCount++
		}
	}

	stats.ExperienceYears = CalculateExperienceYears(doc.Experience, clk)
	stats.SkillCount = len(doc.Skills)
	stats.ProjectCount = len(doc.Projects)
	return stats
}

// ListStats aggregates a resume list for dashboards: total count, the
// most recent update stamp, and the most used theme color. The list is
// assumed most-recently-updated-first, as the sync client returns it.
func ListStats(list []types.ResumeListItem) types.ListStats {
	stats := types.ListStats{TotalResumes: len(list)}
	if len(list) == 0 {
		return stats
	}
	stats.LastUpdated = list[0].LastUpdated

	themeCount := make(map[string]int)
	for _, item := range list {
		if item.ThemeColor != "" {
			themeCount[item.ThemeColor]++
		}
	}
	best := 0
	for theme, count := range themeCount {
		if count > best || (count == best && theme < stats.MostUsedTheme) {
			best = count
			stats.MostUsedTheme = theme
		}
	}
	return stats
}

// PreviewText builds a one-line preview of the document for share
// sheets and list rows.
func PreviewText(doc types.ResumeDocument) string {
	var parts []string

	personal := doc.Personal
	if personal.FirstName != "" && personal.LastName != "" {
		parts = append(parts, personal.FirstName+" "+personal.LastName)
	}
	if personal.JobTitle != "" {
		parts = append(parts, personal.JobTitle)
	}
	if personal.Email != "" {
		parts = append(parts, personal.Email)
	}
	if personal.Phone != "" {
		parts = append(parts, personal.Phone)
	}
	if doc.Summary != "" {
		summary := doc.Summary
		// Truncate on a rune boundary so a multi-byte character is
		// never cut in half.
		if runes := []rune(summary); len(runes) > 100 {
			summary = string(runes[:100])
		}
		parts = append(parts, summary+"...")
	}
	if len(doc.Experience) > 0 {
		exp := doc.Experience[0]
		if exp.Title != "" && exp.CompanyName != "" {
			parts = append(parts, exp.Title+" at "+exp.CompanyName)
		}
	}
	return strings.Join(parts, " • ")
}

// SortExperiencesByDate returns a copy sorted most recent start first.
func SortExperiencesByDate(experience []types.Experience) []types.Experience {
	out := append([]types.Experience(nil), experience...)
	sort.SliceStable(out, func(i, j int) bool {
		a, okA := types.ParseDate(out[i].StartDate)
		b, okB := types.ParseDate(out[j].StartDate)
		if !okA || !okB {
			return okA && !okB
		}
		return a.After(b)
	})
	return out
}

// SortEducationByDate returns a copy sorted most recent start first.
func SortEducationByDate(education []types.Education) []types.Education {
	out := append([]types.Education(nil), education...)
	sort.SliceStable(out, func(i, j int) bool {
		a, okA := types.ParseDate(out[i].StartDate)
		b, okB := types.ParseDate(out[j].StartDate)
		if !okA || !okB {
			return okA && !okB
		}
		return a.After(b)
	})
	return out
}
