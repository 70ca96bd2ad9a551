// Package validation scores a resume document's completeness and lists
// its structural errors and warnings. Everything here is pure: no I/O,
// no clock, deterministic for a given document.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-sync/internal/types"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	// phoneJunk strips the separators people type into phone numbers
	// before the loose format check.
	phoneJunk = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
)

// Section point values. Scores sum across sections and the total is
// clamped to the 0-100 range callers rely on.
const (
	pointsPerRequiredPersonalField = 2
	pointsJobTitle                 = 2
	pointsSummary                  = 15
	pointsExperienceBase           = 10
	pointsPerExperienceSummary     = 2
	pointsEducationBase            = 10
	pointsPerGradedEducation       = 1
	pointsSkillsBase               = 10
	pointsPerNamedSkill            = 1
	pointsProjectsBase             = 5
	pointsPerCompleteProject       = 2

	maxScore = 100
	minSkillCount = 3
)

// sectionResult is the per-section contribution folded into the final
// ValidationResult.
type sectionResult struct {
	errors   []types.ValidationIssue
	warnings []types.ValidationIssue
	score    int
}

// Validate scores the document and collects structural errors and
// warnings. Missing optional sections produce warnings; only the
// documented required fields produce errors. It never fails.
func Validate(doc types.ResumeDocument) types.ValidationResult {
	result := types.ValidationResult{
		Errors:   []types.ValidationIssue{},
		Warnings: []types.ValidationIssue{},
	}

	total := 0
	for _, section := range []sectionResult{
		validatePersonal(doc.Personal),
		validateSummary(doc.Summary),
		validateExperience(doc.Experience),
		validateEducation(doc.Education),
		validateSkills(doc.Skills),
		validateProjects(doc.Projects),
	} {
		result.Errors = append(result.Errors, section.errors...)
		result.Warnings = append(result.Warnings, section.warnings...)
		total += section.score
	}

	if total > maxScore {
		total = maxScore
	}
	if total < 0 {
		total = 0
	}
	result.CompletenessScore = total
	result.IsValid = len(result.Errors) == 0
	return result
}

func validatePersonal(personal types.PersonalDetails) sectionResult {
	var out sectionResult

	required := []struct {
		key, label, value string
	}{
		{"firstName", "First Name", personal.FirstName},
		{"lastName", "Last Name", personal.LastName},
		{"email", "Email", personal.Email},
		{"phone", "Phone", personal.Phone},
		{"address", "Address", personal.Address},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			out.errors = append(out.errors, types.ValidationIssue{
				Field:   field.key,
				Message: field.label + " is required",
				Section: "personal",
			})
		} else {
			out.score += pointsPerRequiredPersonalField
		}
	}

	if strings.TrimSpace(personal.JobTitle) == "" {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "jobTitle",
			Message: "Job title is recommended",
			Section: "personal",
		})
	} else {
		out.score += pointsJobTitle
	}

	if personal.Email != "" && !emailPattern.MatchString(personal.Email) {
		out.errors = append(out.errors, types.ValidationIssue{
			Field:   "email",
			Message: "Please enter a valid email address",
			Section: "personal",
		})
	}

	// A malformed phone is a warning, not an error.
	if personal.Phone != "" && !phonePattern.MatchString(phoneJunk.Replace(personal.Phone)) {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "phone",
			Message: "Please enter a valid phone number",
			Section: "personal",
		})
	}

	return out
}

func validateSummary(summary string) sectionResult {
	var out sectionResult

	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		out.errors = append(out.errors, types.ValidationIssue{
			Field:   "summary",
			Message: "Professional summary is required",
			Section: "summary",
		})
		return out
	}

	out.score += pointsSummary
	length := utf8.RuneCountInString(trimmed)
	if length < 50 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "summary",
			Message: "Summary should be at least 50 characters long",
			Section: "summary",
		})
	} else if length > 500 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "summary",
			Message: "Summary should be less than 500 characters",
			Section: "summary",
		})
	}
	return out
}

func validateExperience(experience []types.Experience) sectionResult {
	var out sectionResult

	if len(experience) == 0 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "experience",
			Message: "Work experience is recommended",
			Section: "experience",
		})
		return out
	}

	out.score += pointsExperienceBase
	for i, exp := range experience {
		required := []struct {
			key, label, value string
		}{
			{"title", "Job Title", exp.Title},
			{"companyName", "Company Name", exp.CompanyName},
			{"city", "City", exp.City},
			{"state", "State", exp.State},
			{"startDate", "Start Date", exp.StartDate},
			{"endDate", "End Date", exp.EndDate},
		}
		for _, field := range required {
			if strings.TrimSpace(field.value) == "" {
				out.errors = append(out.errors, types.ValidationIssue{
					Field:   field.key,
					Message: fmt.Sprintf("%s is required for experience %d", field.label, i+1),
					Section: "experience",
				})
			}
		}

		out.errors = append(out.errors, checkDateOrder(exp.StartDate, exp.EndDate, "experience")...)

		if strings.TrimSpace(exp.WorkSummary) == "" {
			out.warnings = append(out.warnings, types.ValidationIssue{
				Field:   "workSummary",
				Message: "Work summary is recommended for experience",
				Section: "experience",
			})
		} else {
			out.score += pointsPerExperienceSummary
		}
	}
	return out
}

func validateEducation(education []types.Education) sectionResult {
	var out sectionResult

	if len(education) == 0 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "education",
			Message: "Education section is recommended",
			Section: "education",
		})
		return out
	}

	out.score += pointsEducationBase
	for i, edu := range education {
		required := []struct {
			key, label, value string
		}{
			{"universityName", "University Name", edu.UniversityName},
			{"degree", "Degree", edu.Degree},
			{"major", "Major", edu.Major},
			{"grade", "Grade", edu.Grade},
			{"startDate", "Start Date", edu.StartDate},
			{"endDate", "End Date", edu.EndDate},
		}
		for _, field := range required {
			if strings.TrimSpace(field.value) == "" {
				out.errors = append(out.errors, types.ValidationIssue{
					Field:   field.key,
					Message: fmt.Sprintf("%s is required for education %d", field.label, i+1),
					Section: "education",
				})
			}
		}

		out.errors = append(out.errors, checkDateOrder(edu.StartDate, edu.EndDate, "education")...)

		if edu.Grade != "" && edu.GradeType != "" {
			if _, err := strconv.ParseFloat(strings.TrimSpace(edu.Grade), 64); err != nil {
				out.errors = append(out.errors, types.ValidationIssue{
					Field:   "grade",
					Message: "Grade must be a valid number",
					Section: "education",
				})
			} else {
				out.score += pointsPerGradedEducation
			}
		}
	}
	return out
}

func validateSkills(skills []types.Skill) sectionResult {
	var out sectionResult

	if len(skills) == 0 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "skills",
			Message: "Skills section is recommended",
			Section: "skills",
		})
		return out
	}

	out.score += pointsSkillsBase
	for i, skill := range skills {
		if strings.TrimSpace(skill.Name) == "" {
			out.errors = append(out.errors, types.ValidationIssue{
				Field:   "name",
				Message: fmt.Sprintf("Skill name is required for skill %d", i+1),
				Section: "skills",
			})
		} else {
			out.score += pointsPerNamedSkill
		}
	}

	if len(skills) < minSkillCount {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "skills",
			Message: "Consider adding at least 3 skills",
			Section: "skills",
		})
	}
	return out
}

func validateProjects(projects []types.Project) sectionResult {
	var out sectionResult

	if len(projects) == 0 {
		out.warnings = append(out.warnings, types.ValidationIssue{
			Field:   "projects",
			Message: "Projects section is recommended",
			Section: "projects",
		})
		return out
	}

	out.score += pointsProjectsBase
	for i, project := range projects {
		required := []struct {
			key, label, value string
		}{
			{"projectName", "Project Name", project.ProjectName},
			{"techStack", "Tech Stack", project.TechStack},
		}
		for _, field := range required {
			if strings.TrimSpace(field.value) == "" {
				out.errors = append(out.errors, types.ValidationIssue{
					Field:   field.key,
					Message: fmt.Sprintf("%s is required for project %d", field.label, i+1),
					Section: "projects",
				})
			}
		}

		if strings.TrimSpace(project.ProjectName) != "" && strings.TrimSpace(project.TechStack) != "" {
			out.score += pointsPerCompleteProject
		}

		if strings.TrimSpace(project.ProjectSummary) == "" {
			out.warnings = append(out.warnings, types.ValidationIssue{
				Field:   "projectSummary",
				Message: "Project summary is recommended",
				Section: "projects",
			})
		}
	}
	return out
}

// checkDateOrder reports an error when both dates parse and the end
// precedes the start. Unparseable dates are left to the required-field
// checks.
func checkDateOrder(start, end, section string) []types.ValidationIssue {
	startTime, okStart := types.ParseDate(start)
	endTime, okEnd := types.ParseDate(end)
	if !okStart || !okEnd {
		return nil
	}
	if startTime.After(endTime) {
		return []types.ValidationIssue{{
			Field:   "endDate",
			Message: "End date must be after start date",
			Section: section,
		}}
	}
	return nil
}
