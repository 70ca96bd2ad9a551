package resumeutil

import (
	"strings"

	"github.com/jonathan/resume-sync/internal/types"
)

// Clean trims all string leaves of the document, lower-cases the
// email, and drops skills whose name trims to empty. Run before every
// create and update so persisted data never carries stray whitespace.
// Clean is idempotent.
func Clean(doc types.ResumeDocument) types.ResumeDocument {
	out := doc.Clone()
	out.Title = strings.TrimSpace(out.Title)
	out.Personal = cleanPersonal(out.Personal)
	out.Summary = strings.TrimSpace(out.Summary)
	out.Experience = cleanExperience(out.Experience)
	out.Education = cleanEducation(out.Education)
	out.Skills = cleanSkills(out.Skills)
	out.Projects = cleanProjects(out.Projects)
	return out
}

// CleanPatch applies the same trimming to the sections a patch
// carries.
func CleanPatch(patch types.DocumentPatch) types.DocumentPatch {
	out := patch
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		out.Title = &title
	}
	if patch.Personal != nil {
		personal := cleanPersonal(*patch.Personal)
		out.Personal = &personal
	}
	if patch.Summary != nil {
		summary := strings.TrimSpace(*patch.Summary)
		out.Summary = &summary
	}
	if patch.Experience != nil {
		experience := cleanExperience(*patch.Experience)
		out.Experience = &experience
	}
	if patch.Education != nil {
		education := cleanEducation(*patch.Education)
		out.Education = &education
	}
	if patch.Skills != nil {
		skills := cleanSkills(*patch.Skills)
		out.Skills = &skills
	}
	if patch.Projects != nil {
		projects := cleanProjects(*patch.Projects)
		out.Projects = &projects
	}
	if patch.ThemeColor != nil {
		theme := strings.TrimSpace(*patch.ThemeColor)
		out.ThemeColor = &theme
	}
	return out
}

func cleanPersonal(personal types.PersonalDetails) types.PersonalDetails {
	personal.FirstName = strings.TrimSpace(personal.FirstName)
	personal.LastName = strings.TrimSpace(personal.LastName)
	personal.JobTitle = strings.TrimSpace(personal.JobTitle)
	personal.Email = strings.ToLower(strings.TrimSpace(personal.Email))
	personal.Phone = strings.TrimSpace(personal.Phone)
	personal.Address = strings.TrimSpace(personal.Address)
	return personal
}

func cleanExperience(experience []types.Experience) []types.Experience {
	out := make([]types.Experience, len(experience))
	for i, exp := range experience {
		exp.Title = strings.TrimSpace(exp.Title)
		exp.CompanyName = strings.TrimSpace(exp.CompanyName)
		exp.City = strings.TrimSpace(exp.City)
		exp.State = strings.TrimSpace(exp.State)
		exp.WorkSummary = strings.TrimSpace(exp.WorkSummary)
		out[i] = exp
	}
	return out
}

func cleanEducation(education []types.Education) []types.Education {
	out := make([]types.Education, len(education))
	for i, edu := range education {
		edu.UniversityName = strings.TrimSpace(edu.UniversityName)
		edu.Degree = strings.TrimSpace(edu.Degree)
		edu.Major = strings.TrimSpace(edu.Major)
		edu.Grade = strings.TrimSpace(edu.Grade)
		edu.Description = strings.TrimSpace(edu.Description)
		out[i] = edu
	}
	return out
}

func cleanSkills(skills []types.Skill) []types.Skill {
	out := make([]types.Skill, 0, len(skills))
	for _, skill := range skills {
		skill.Name = strings.TrimSpace(skill.Name)
		if skill.Name == "" {
			continue
		}
		out = append(out, skill)
	}
	return out
}

func cleanProjects(projects []types.Project) []types.Project {
	out := make([]types.Project, len(projects))
	for i, project := range projects {
		project.ProjectName = strings.TrimSpace(project.ProjectName)
		project.TechStack = strings.TrimSpace(project.TechStack)
		project.ProjectSummary = strings.TrimSpace(project.ProjectSummary)
		out[i] = project
	}
	return out
}
