package types

// ValidationIssue describes a single structural error or warning found
// in a document.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Section string `json:"section,omitempty"`
}

// ValidationResult is the derived validation state of a document. It
// is recomputed with every content mutation and never persisted.
// CompletenessScore is in the range 0-100.
type ValidationResult struct {
	IsValid           bool              `json:"isValid"`
	Errors            []ValidationIssue `json:"errors"`
	Warnings          []ValidationIssue `json:"warnings"`
	CompletenessScore int               `json:"completenessScore"`
}

// ResumeStats aggregates content counts for a single document.
type ResumeStats struct {
	WordCount       int     `json:"wordCount"`
	CharacterCount  int     `json:"characterCount"`
	SectionCount    int     `json:"sectionCount"`
	ExperienceYears float64 `json:"experienceYears"`
	SkillCount      int     `json:"skillCount"`
	ProjectCount    int     `json:"projectCount"`
}

// ListStats aggregates a user's resume collection for dashboards.
type ListStats struct {
	TotalResumes  int    `json:"totalResumes"`
	LastUpdated   string `json:"lastUpdated,omitempty"`
	MostUsedTheme string `json:"mostUsedTheme,omitempty"`
}
