package validation

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-sync/internal/types"
)

func completeDocument() types.ResumeDocument {
	return types.ResumeDocument{
		Title: "Jane Doe Resume",
		Personal: types.PersonalDetails{
			FirstName: "Jane",
			LastName:  "Doe",
			JobTitle:  "Software Engineer",
			Email:     "jane@example.com",
			Phone:     "+14155550123",
			Address:   "1 Main St, Springfield",
		},
		Summary: "Engineer with eight years of experience building and operating distributed systems at scale.",
		Experience: []types.Experience{{
			Title:       "Senior Engineer",
			CompanyName: "Acme",
			City:        "Springfield",
			State:       "IL",
			StartDate:   "2019-02",
			EndDate:     "2023-06",
			WorkSummary: "Led the storage team.",
		}},
		Education: []types.Education{{
			UniversityName: "State University",
			Degree:         "BSc",
			Major:          "Computer Science",
			Grade:          "3.8",
			GradeType:      "GPA",
			StartDate:      "2012-09",
			EndDate:        "2016-06",
		}},
		Skills: []types.Skill{
			{Name: "Go"}, {Name: "PostgreSQL"}, {Name: "Kubernetes"},
		},
		Projects: []types.Project{{
			ProjectName:    "resume-sync",
			TechStack:      "Go, PostgreSQL",
			ProjectSummary: "Offline-first sync engine.",
		}},
	}
}

func fieldsOf(issues []types.ValidationIssue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestValidateCompleteDocument(t *testing.T) {
	result := Validate(completeDocument())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.GreaterOrEqual(t, result.CompletenessScore, 70)
	assert.LessOrEqual(t, result.CompletenessScore, 100)
}

func TestValidateNamesOnly(t *testing.T) {
	doc := types.ResumeDocument{
		Personal: types.PersonalDetails{FirstName: "Jane", LastName: "Doe"},
	}

	result := Validate(doc)

	require.False(t, result.IsValid)
	fields := fieldsOf(result.Errors)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "summary")
	assert.GreaterOrEqual(t, result.CompletenessScore, 0)
	assert.Less(t, result.CompletenessScore, 30)
}

func TestValidateEmptyDocument(t *testing.T) {
	result := Validate(types.ResumeDocument{})

	assert.False(t, result.IsValid)
	assert.Equal(t, 0, result.CompletenessScore)
	// Optional sections warn instead of erroring.
	warnFields := fieldsOf(result.Warnings)
	assert.Contains(t, warnFields, "experience")
	assert.Contains(t, warnFields, "education")
	assert.Contains(t, warnFields, "skills")
	assert.Contains(t, warnFields, "projects")
}

func TestScoreMonotonicallyIncreasesAsFieldsFill(t *testing.T) {
	doc := types.ResumeDocument{}
	previous := Validate(doc).CompletenessScore

	steps := []func(*types.ResumeDocument){
		func(d *types.ResumeDocument) { d.Personal.FirstName = "Jane" },
		func(d *types.ResumeDocument) { d.Personal.LastName = "Doe" },
		func(d *types.ResumeDocument) { d.Personal.Email = "jane@example.com" },
		func(d *types.ResumeDocument) { d.Personal.Phone = "+14155550123" },
		func(d *types.ResumeDocument) { d.Personal.Address = "1 Main St" },
		func(d *types.ResumeDocument) { d.Personal.JobTitle = "Engineer" },
		func(d *types.ResumeDocument) {
			d.Summary = "Engineer with eight years of experience building distributed systems."
		},
		func(d *types.ResumeDocument) {
			d.Skills = []types.Skill{{Name: "Go"}, {Name: "SQL"}, {Name: "Kubernetes"}}
		},
		func(d *types.ResumeDocument) {
			d.Projects = []types.Project{{ProjectName: "resume-sync", TechStack: "Go"}}
		},
	}

	for i, step := range steps {
		step(&doc)
		score := Validate(doc).CompletenessScore
		assert.GreaterOrEqual(t, score, previous, "step %d lowered the score", i)
		previous = score
	}
}

func TestScoreClampedAtHundred(t *testing.T) {
	doc := completeDocument()
	for i := 0; i < 80; i++ {
		doc.Skills = append(doc.Skills, types.Skill{Name: fmt.Sprintf("Skill %d", i)})
	}

	result := Validate(doc)
	assert.Equal(t, 100, result.CompletenessScore)
}

func TestValidatePersonalFormats(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*types.PersonalDetails)
		wantError string
		wantWarn  string
	}{
		{
			name:      "malformed email is an error",
			mutate:    func(p *types.PersonalDetails) { p.Email = "not-an-email" },
			wantError: "email",
		},
		{
			name:     "malformed phone is only a warning",
			mutate:   func(p *types.PersonalDetails) { p.Phone = "0000abc" },
			wantWarn: "phone",
		},
		{
			name:   "formatted phone is accepted",
			mutate: func(p *types.PersonalDetails) { p.Phone = "+1 (415) 555-0123" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := completeDocument()
			tt.mutate(&doc.Personal)
			result := Validate(doc)

			if tt.wantError != "" {
				assert.Contains(t, fieldsOf(result.Errors), tt.wantError)
			}
			if tt.wantWarn != "" {
				assert.Contains(t, fieldsOf(result.Warnings), tt.wantWarn)
			}
			if tt.wantError == "" && tt.wantWarn == "" {
				assert.NotContains(t, fieldsOf(result.Errors), "phone")
				assert.NotContains(t, fieldsOf(result.Warnings), "phone")
			}
		})
	}
}

func TestValidateSummaryLengthBand(t *testing.T) {
	doc := completeDocument()

	doc.Summary = "Too short."
	result := Validate(doc)
	assert.Contains(t, fieldsOf(result.Warnings), "summary")
	assert.True(t, result.IsValid, "length band is a warning, not an error")

	long := make([]byte, 0, 520)
	for len(long) < 520 {
		long = append(long, "lengthy summary text "...)
	}
	doc.Summary = string(long)
	result = Validate(doc)
	assert.Contains(t, fieldsOf(result.Warnings), "summary")
}

func TestValidateSummaryLengthCountsCharactersNotBytes(t *testing.T) {
	doc := completeDocument()

	// 60 characters but 180 bytes: inside the band.
	doc.Summary = strings.Repeat("日", 60)
	result := Validate(doc)
	assert.NotContains(t, fieldsOf(result.Warnings), "summary")

	// 40 characters but 120 bytes: still too short.
	doc.Summary = strings.Repeat("日", 40)
	result = Validate(doc)
	assert.Contains(t, fieldsOf(result.Warnings), "summary")
}

func TestValidateDateOrder(t *testing.T) {
	doc := completeDocument()
	doc.Experience[0].StartDate = "2023-06"
	doc.Experience[0].EndDate = "2019-02"

	result := Validate(doc)

	require.False(t, result.IsValid)
	assert.Contains(t, fieldsOf(result.Errors), "endDate")
}

func TestValidateSkillRules(t *testing.T) {
	doc := completeDocument()
	doc.Skills = []types.Skill{{Name: ""}, {Name: "Go"}}

	result := Validate(doc)

	assert.Contains(t, fieldsOf(result.Errors), "name")
	assert.Contains(t, fieldsOf(result.Warnings), "skills", "fewer than 3 skills warns")
}

func TestValidateEducationGrade(t *testing.T) {
	doc := completeDocument()
	doc.Education[0].Grade = "three point eight"

	result := Validate(doc)

	assert.Contains(t, fieldsOf(result.Errors), "grade")
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		result  types.ValidationResult
		message string
	}{
		{
			name:    "excellent",
			result:  types.ValidationResult{IsValid: true, CompletenessScore: 95},
			message: "Excellent! Your resume is complete and well-structured.",
		},
		{
			name:    "good",
			result:  types.ValidationResult{IsValid: true, CompletenessScore: 75},
			message: "Good! Your resume is mostly complete with minor improvements needed.",
		},
		{
			name:    "needs content",
			result:  types.ValidationResult{IsValid: true, CompletenessScore: 40},
			message: "Your resume needs more content to be competitive.",
		},
		{
			name: "invalid",
			result: types.ValidationResult{
				IsValid: false,
				Errors:  []types.ValidationIssue{{Field: "email"}, {Field: "summary"}},
			},
			message: "Your resume has 2 error(s) that need to be fixed.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := Summarize(tt.result)
			assert.Equal(t, tt.message, summary.Message)
		})
	}
}
