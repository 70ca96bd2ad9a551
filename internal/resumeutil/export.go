package resumeutil

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-sync/internal/types"
)

// Export renders the document in the requested format: exact JSON,
// plain text, or markdown. Deterministic for a given document. An
// unrecognized format falls back to JSON.
func Export(doc types.ResumeDocument, format types.ExportFormat) (string, error) {
	switch format {
	case types.FormatText:
		return exportText(doc), nil
	case types.FormatMarkdown:
		return exportMarkdown(doc), nil
	case types.FormatJSON:
		fallthrough
	default:
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to export resume as JSON: %w", err)
		}
		return string(raw), nil
	}
}

func exportText(doc types.ResumeDocument) string {
	var b strings.Builder

	personal := doc.Personal
	fmt.Fprintf(&b, "%s %s\n", personal.FirstName, personal.LastName)
	if personal.JobTitle != "" {
		fmt.Fprintf(&b, "%s\n", personal.JobTitle)
	}
	if personal.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", personal.Email)
	}
	if personal.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", personal.Phone)
	}
	if personal.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", personal.Address)
	}
	b.WriteString("\n")

	if doc.Summary != "" {
		fmt.Fprintf(&b, "SUMMARY\n%s\n\n", doc.Summary)
	}

	if len(doc.Experience) > 0 {
		b.WriteString("EXPERIENCE\n")
		for _, exp := range doc.Experience {
			fmt.Fprintf(&b, "%s at %s\n", exp.Title, exp.CompanyName)
			fmt.Fprintf(&b, "%s, %s\n", exp.City, exp.State)
			fmt.Fprintf(&b, "%s\n", FormatDateRange(exp.StartDate, exp.EndDate, exp.CurrentlyWorking))
			if exp.WorkSummary != "" {
				fmt.Fprintf(&b, "%s\n", exp.WorkSummary)
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Education) > 0 {
		b.WriteString("EDUCATION\n")
		for _, edu := range doc.Education {
			fmt.Fprintf(&b, "%s in %s\n", edu.Degree, edu.Major)
			fmt.Fprintf(&b, "%s\n", edu.UniversityName)
			fmt.Fprintf(&b, "%s\n", FormatDateRange(edu.StartDate, edu.EndDate, false))
			if edu.Grade != "" {
				fmt.Fprintf(&b, "Grade: %s %s\n", edu.Grade, edu.GradeType)
			}
			if edu.Description != "" {
				fmt.Fprintf(&b, "%s\n", edu.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Skills) > 0 {
		b.WriteString("SKILLS\n")
		names := make([]string, len(doc.Skills))
		for i, skill := range doc.Skills {
			names[i] = skill.Name
		}
		fmt.Fprintf(&b, "%s\n\n", strings.Join(names, ", "))
	}

	if len(doc.Projects) > 0 {
		b.WriteString("PROJECTS\n")
		for _, project := range doc.Projects {
			fmt.Fprintf(&b, "%s\n", project.ProjectName)
			if project.TechStack != "" {
				fmt.Fprintf(&b, "Tech Stack: %s\n", project.TechStack)
			}
			if project.ProjectSummary != "" {
				fmt.Fprintf(&b, "%s\n", project.ProjectSummary)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func exportMarkdown(doc types.ResumeDocument) string {
	var b strings.Builder

	personal := doc.Personal
	fmt.Fprintf(&b, "# %s %s\n\n", personal.FirstName, personal.LastName)
	if personal.JobTitle != "" {
		fmt.Fprintf(&b, "**%s**\n\n", personal.JobTitle)
	}
	if personal.Email != "" {
		fmt.Fprintf(&b, "Email: %s\n", personal.Email)
	}
	if personal.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", personal.Phone)
	}
	if personal.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", personal.Address)
	}
	b.WriteString("\n")

	if doc.Summary != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", doc.Summary)
	}

	if len(doc.Experience) > 0 {
		b.WriteString("## Experience\n\n")
		for _, exp := range doc.Experience {
			fmt.Fprintf(&b, "### %s at %s\n", exp.Title, exp.CompanyName)
			fmt.Fprintf(&b, "*%s, %s* | %s\n\n", exp.City, exp.State,
				FormatDateRange(exp.StartDate, exp.EndDate, exp.CurrentlyWorking))
			if exp.WorkSummary != "" {
				fmt.Fprintf(&b, "%s\n\n", exp.WorkSummary)
			}
		}
	}

	if len(doc.Education) > 0 {
		b.WriteString("## Education\n\n")
		for _, edu := range doc.Education {
			fmt.Fprintf(&b, "### %s in %s\n", edu.Degree, edu.Major)
			fmt.Fprintf(&b, "**%s** | %s\n", edu.UniversityName,
				FormatDateRange(edu.StartDate, edu.EndDate, false))
			if edu.Grade != "" {
				fmt.Fprintf(&b, "Grade: %s %s\n", edu.Grade, edu.GradeType)
			}
			if edu.Description != "" {
				fmt.Fprintf(&b, "\n%s\n", edu.Description)
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		for _, skill := range doc.Skills {
			fmt.Fprintf(&b, "- %s\n", skill.Name)
		}
		b.WriteString("\n")
	}

	if len(doc.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, project := range doc.Projects {
			fmt.Fprintf(&b, "### %s\n", project.ProjectName)
			if project.TechStack != "" {
				fmt.Fprintf(&b, "**Tech Stack:** %s\n\n", project.TechStack)
			}
			if project.ProjectSummary != "" {
				fmt.Fprintf(&b, "%s\n\n", project.ProjectSummary)
			}
		}
	}

	return b.String()
}
