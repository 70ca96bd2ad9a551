// Package types provides type definitions for resume documents and the
// state shared between the editor, the persistence layer, and the
// remote sync client.
package types

import "encoding/json"

// PersonalDetails holds the contact block of a resume.
type PersonalDetails struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	JobTitle  string `json:"jobTitle" validate:"max=200"`
	Address   string `json:"address" validate:"max=500"`
	Phone     string `json:"phone" validate:"max=40"`
	Email     string `json:"email" validate:"omitempty,email"`
	Avatar    string `json:"avatar,omitempty" validate:"omitempty,url"`
}

// Experience is a single work-history entry.
type Experience struct {
	Title            string `json:"title"`
	CompanyName      string `json:"companyName"`
	City             string `json:"city"`
	State            string `json:"state"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
	CurrentlyWorking bool   `json:"currentlyWorking"`
	WorkSummary      string `json:"workSummary"`
}

// Education is a single education entry. GradeType is one of
// "CGPA", "GPA" or "Percentage".
type Education struct {
	UniversityName string `json:"universityName"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	Grade          string `json:"grade"`
	GradeType      string `json:"gradeType" validate:"omitempty,oneof=CGPA GPA Percentage"`
	StartDate      string `json:"startDate"`
	EndDate        string `json:"endDate"`
	Description    string `json:"description,omitempty"`
}

// Skill is a single named skill with optional metadata.
type Skill struct {
	Name              string  `json:"name"`
	Category          string  `json:"category,omitempty"`
	Rating            int     `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	YearsOfExperience float64 `json:"yearsOfExperience,omitempty"`
}

// Project is a single portfolio project entry.
type Project struct {
	ProjectName    string `json:"projectName"`
	TechStack      string `json:"techStack"`
	ProjectSummary string `json:"projectSummary"`
	ProjectURL     string `json:"projectUrl,omitempty" validate:"omitempty,url"`
	GithubURL      string `json:"githubUrl,omitempty" validate:"omitempty,url"`
}

// ResumeDocument is the edited entity. ID is empty until the first
// remote commit assigns one; once assigned it never changes.
// CreatedAt and LastUpdated are ISO-8601 strings; remote server
// timestamps are converted to this form at the sync-client boundary.
type ResumeDocument struct {
	ID          string           `json:"id,omitempty"`
	Title       string           `json:"title" validate:"max=200"`
	Personal    PersonalDetails  `json:"personal"`
	Summary     string           `json:"summary"`
	Experience  []Experience     `json:"experience"`
	Education   []Education      `json:"education"`
	Skills      []Skill          `json:"skills"`
	Projects    []Project        `json:"projects"`
	ThemeColor  string           `json:"themeColor,omitempty" validate:"omitempty,hexcolor"`
	CreatedAt   string           `json:"createdAt,omitempty"`
	LastUpdated string           `json:"lastUpdated,omitempty"`
	OwnerID     string           `json:"userId,omitempty"`
}

// ListPersonal is the reduced contact block carried by list items.
type ListPersonal struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
}

// ResumeListItem is the projection of a document used by list views.
type ResumeListItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Personal    ListPersonal `json:"personal"`
	CreatedAt   string       `json:"createdAt"`
	LastUpdated string       `json:"lastUpdated"`
	ThemeColor  string       `json:"themeColor,omitempty"`
}

// ListItem returns the list projection of the document.
func (d *ResumeDocument) ListItem() ResumeListItem {
	return ResumeListItem{
		ID:    d.ID,
		Title: d.Title,
		Personal: ListPersonal{
			FirstName: d.Personal.FirstName,
			LastName:  d.Personal.LastName,
			JobTitle:  d.Personal.JobTitle,
		},
		CreatedAt:   d.CreatedAt,
		LastUpdated: d.LastUpdated,
		ThemeColor:  d.ThemeColor,
	}
}

// Clone returns a deep copy of the document. Session state hands out
// clones so callers can never mutate the store's copy in place.
func (d *ResumeDocument) Clone() ResumeDocument {
	out := *d
	out.Experience = append([]Experience(nil), d.Experience...)
	out.Education = append([]Education(nil), d.Education...)
	out.Skills = append([]Skill(nil), d.Skills...)
	out.Projects = append([]Project(nil), d.Projects...)
	return out
}

// DocumentPatch is a partial document. Nil fields are left untouched
// when the patch is applied; non-nil fields replace the corresponding
// section wholesale, matching the remote store's top-level merge
// semantics.
type DocumentPatch struct {
	Title      *string          `json:"title,omitempty"`
	Personal   *PersonalDetails `json:"personal,omitempty"`
	Summary    *string          `json:"summary,omitempty"`
	Experience *[]Experience    `json:"experience,omitempty"`
	Education  *[]Education     `json:"education,omitempty"`
	Skills     *[]Skill         `json:"skills,omitempty"`
	Projects   *[]Project       `json:"projects,omitempty"`
	ThemeColor *string          `json:"themeColor,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p DocumentPatch) IsEmpty() bool {
	return p.Title == nil && p.Personal == nil && p.Summary == nil &&
		p.Experience == nil && p.Education == nil && p.Skills == nil &&
		p.Projects == nil && p.ThemeColor == nil
}

// Apply merges the patch into the document.
func (d *ResumeDocument) Apply(p DocumentPatch) {
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Personal != nil {
		d.Personal = *p.Personal
	}
	if p.Summary != nil {
		d.Summary = *p.Summary
	}
	if p.Experience != nil {
		d.Experience = append([]Experience(nil), (*p.Experience)...)
	}
	if p.Education != nil {
		d.Education = append([]Education(nil), (*p.Education)...)
	}
	if p.Skills != nil {
		d.Skills = append([]Skill(nil), (*p.Skills)...)
	}
	if p.Projects != nil {
		d.Projects = append([]Project(nil), (*p.Projects)...)
	}
	if p.ThemeColor != nil {
		d.ThemeColor = *p.ThemeColor
	}
}

// PatchFrom builds a patch that carries every section of the document.
// Used when a whole in-memory document has to be committed remotely.
func PatchFrom(d *ResumeDocument) DocumentPatch {
	return DocumentPatch{
		Title:      &d.Title,
		Personal:   &d.Personal,
		Summary:    &d.Summary,
		Experience: &d.Experience,
		Education:  &d.Education,
		Skills:     &d.Skills,
		Projects:   &d.Projects,
		ThemeColor: &d.ThemeColor,
	}
}

// MarshalFields returns the patch's non-nil fields keyed by their JSON
// names, each encoded as raw JSON. Backends use this to build narrow
// field-level updates.
func (p DocumentPatch) MarshalFields() (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
