package services

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/anjiri1684/skill_swap/models"
)

// SearchSkills keeps the skills whose name, description, category or level
// contains query (case-insensitive) and that satisfy filters. An empty query
// with no filters returns skills unchanged.
func SearchSkills(skills []models.Skill, query string, filters *models.SkillFilters) []models.Skill {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" && filters.IsZero() {
		return skills
	}

	out := make([]models.Skill, 0, len(skills))
	for _, s := range skills {
		if q != "" && !containsAny(q, s.Name, s.Description, s.Category, s.Level) {
			continue
		}
		if !filters.IsZero() && !matchesFilters(s, filters) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesFilters(s models.Skill, f *models.SkillFilters) bool {
	if f.Category != "" && s.Category != f.Category {
		return false
	}
	if f.Level != "" && s.Level != f.Level {
		return false
	}
	if f.MinRate != 0 && s.Rate < f.MinRate {
		return false
	}
	if f.MaxRate != 0 && s.Rate > f.MaxRate {
		return false
	}
	return true
}

func SearchMentors(mentors []models.Mentor, query string) []models.Mentor {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return mentors
	}

	out := make([]models.Mentor, 0, len(mentors))
	for _, m := range mentors {
		if containsAny(q, m.Name, m.Bio, m.Email) || containsAny(q, m.Expertise...) {
			out = append(out, m)
		}
	}
	return out
}

func containsAny(lowerQuery string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), lowerQuery) {
			return true
		}
	}
	return false
}

// SortSkills orders skills by rating, then sessions completed, both
// descending. Equal skills keep their relative order.
func SortSkills(skills []models.Skill) {
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Rating != skills[j].Rating {
			return skills[i].Rating > skills[j].Rating
		}
		return skills[i].SessionsCompleted > skills[j].SessionsCompleted
	})
}

// HighlightQuery HTML-escapes text and wraps every case-insensitive
// occurrence of query in <mark>.
func HighlightQuery(text, query string) string {
	escaped := html.EscapeString(text)
	if strings.TrimSpace(query) == "" {
		return escaped
	}
	re := regexp.MustCompile(`(?i)(` + regexp.QuoteMeta(html.EscapeString(query)) + `)`)
	return re.ReplaceAllString(escaped, "<mark>$1</mark>")
}

// HighlightViews rewrites the name and description of views with query
// highlighted.
func HighlightViews(views []models.SkillView, query string) {
	for i := range views {
		views[i].Name = HighlightQuery(views[i].Name, query)
		views[i].Description = HighlightQuery(views[i].Description, query)
	}
}
