package resumeutil

import (
	"strings"

	"github.com/jonathan/resume-sync/internal/types"
)

// skillDictionary is the fixed set of technology names scanned for in
// free-text fields. Matching is case-insensitive; the canonical
// spelling here is what gets reported.
var skillDictionary = []string{
	"JavaScript", "TypeScript", "React", "Vue", "Angular", "Node.js", "Python", "Java",
	"C++", "C#", "PHP", "Ruby", "Go", "Rust", "Swift", "Kotlin", "Dart", "HTML", "CSS",
	"SASS", "SCSS", "Bootstrap", "Tailwind", "jQuery", "Express", "Django", "Flask",
	"Spring", "Laravel", "Rails", "ASP.NET", "MongoDB", "MySQL", "PostgreSQL", "Redis",
	"Firebase", "AWS", "Azure", "Docker", "Kubernetes", "Git", "GitHub", "GitLab",
	"CI/CD", "Jenkins", "Agile", "Scrum", "DevOps", "Machine Learning", "AI", "Data Science",
	"SQL", "NoSQL", "REST API", "GraphQL", "Microservices", "Cloud Computing",
}

// ExtractSkillsFromText scans free text for known technology names.
func ExtractSkillsFromText(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, skill := range skillDictionary {
		if strings.Contains(lower, strings.ToLower(skill)) {
			found = append(found, skill)
		}
	}
	return found
}

// GenerateKeywords builds a de-duplicated keyword bag from the job
// title, skill names, experience titles and companies, project names,
// tech-stack tokens, and technology names found in work summaries.
// Order follows first appearance.
func GenerateKeywords(doc types.ResumeDocument) []string {
	var keywords []string
	seen := make(map[string]bool)
	add := func(keyword string) {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" || seen[keyword] {
			return
		}
		seen[keyword] = true
		keywords = append(keywords, keyword)
	}

	add(doc.Personal.JobTitle)
	for _, skill := range doc.Skills {
		add(skill.Name)
	}
	for _, exp := range doc.Experience {
		add(exp.Title)
		add(exp.CompanyName)
		for _, skill := range ExtractSkillsFromText(exp.WorkSummary) {
			add(skill)
		}
	}
	for _, project := range doc.Projects {
		add(project.ProjectName)
		for _, tech := range strings.Split(project.TechStack, ",") {
			add(tech)
		}
	}
	return keywords
}
