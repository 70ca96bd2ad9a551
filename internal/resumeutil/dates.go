package resumeutil

import (
	"fmt"
	"math"

	"github.com/jonathan/resume-sync/internal/clock"
	"github.com/jonathan/resume-sync/internal/types"
)

// Experience level thresholds in years.
const (
	juniorYears   = 1
	midLevelYears = 3
	seniorYears   = 5
	expertYears   = 10
)

// FormatDate renders a stored date for display ("January 2, 2006").
// Unparseable input is returned unchanged.
func FormatDate(date string) string {
	t, ok := types.ParseDate(date)
	if !ok {
		return date
	}
	return t.Format("January 2, 2006")
}

// FormatDateRange renders "start - end", substituting "Present" when
// the entry is marked currently working.
func FormatDateRange(start, end string, currentlyWorking bool) string {
	formattedEnd := "Present"
	if !currentlyWorking {
		formattedEnd = FormatDate(end)
	}
	return fmt.Sprintf("%s - %s", FormatDate(start), formattedEnd)
}

// CalculateExperienceYears sums the month spans of all entries and
// converts to years rounded to one decimal. Entries marked currently
// working run until the injected clock's now; spans that would be
// negative contribute zero.
func CalculateExperienceYears(experience []types.Experience, clk clock.Clock) float64 {
	if len(experience) == 0 {
		return 0
	}

	totalMonths := 0
	for _, exp := range experience {
		start, ok := types.ParseDate(exp.StartDate)
		if !ok {
			continue
		}
		end := clk.Now()
		if !exp.CurrentlyWorking {
			parsedEnd, ok := types.ParseDate(exp.EndDate)
			if !ok {
				continue
			}
			end = parsedEnd
		}

		months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
		if months > 0 {
			totalMonths += months
		}
	}

	return math.Round(float64(totalMonths)/12*10) / 10
}

// ExperienceLevel maps total years of experience to a display label.
func ExperienceLevel(years float64) string {
	switch {
	case years < juniorYears:
		return "Entry Level"
	case years < midLevelYears:
		return "Junior"
	case years < seniorYears:
		return "Mid-Level"
	case years < expertYears:
		return "Senior"
	default:
		return "Expert"
	}
}
