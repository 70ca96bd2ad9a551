package validation

import (
	"fmt"

	"github.com/jonathan/resume-sync/internal/types"
)

// Summary is a human-readable digest of a validation result, used by
// dashboards and the CLI.
type Summary struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// Summarize turns a validation result into a display message with
// improvement suggestions.
func Summarize(result types.ValidationResult) Summary {
	var out Summary

	switch {
	case !result.IsValid:
		out.Message = fmt.Sprintf("Your resume has %d error(s) that need to be fixed.", len(result.Errors))
	case result.CompletenessScore >= 90:
		out.Message = "Excellent! Your resume is complete and well-structured."
	case result.CompletenessScore >= 70:
		out.Message = "Good! Your resume is mostly complete with minor improvements needed."
		out.Suggestions = append(out.Suggestions, "Consider adding more details to improve completeness")
	default:
		out.Message = "Your resume needs more content to be competitive."
		out.Suggestions = append(out.Suggestions, "Add more sections and details to improve your resume")
	}

	if len(result.Errors) > 0 {
		out.Suggestions = append(out.Suggestions, "Fix all required field errors before saving")
	}
	if len(result.Warnings) > 0 {
		out.Suggestions = append(out.Suggestions, "Consider addressing the warnings to improve your resume")
	}
	if result.CompletenessScore < 50 {
		out.Suggestions = append(out.Suggestions, "Add more sections like experience, education, or projects")
	}
	return out
}
