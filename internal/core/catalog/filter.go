package catalog

import (
	"strings"
)

// Matcher is the compiled predicate set of a Query. A recipe passes only when
// it satisfies every active filter. Group variant lists are resolved once at
// build time so the per-recipe checks stay cheap.
type Matcher struct {
	term          string
	ratingMin     float64
	ratingMax     float64
	popularityMin int
	popularityMax int
	language      string
	categories    []string
	include       [][]string
	exclude       [][]string
}

// NewMatcher compiles a normalized Query against the group index.
func NewMatcher(q Query, groups *GroupIndex) *Matcher {
	m := &Matcher{
		term:          strings.ToLower(strings.TrimSpace(q.Term)),
		ratingMin:     q.RatingMin,
		ratingMax:     q.RatingMax,
		popularityMin: q.PopularityMin,
		popularityMax: q.PopularityMax,
		categories:    q.Categories,
	}

	// Exactly one requested language restricts; an empty or ambiguous
	// selection widens to all languages.
	if len(q.Languages) == 1 && q.Languages[0] != "" {
		m.language = q.Languages[0]
	}

	for _, id := range q.IncludeGroups {
		m.include = append(m.include, groups.Variants(id))
	}
	for _, id := range q.ExcludeGroups {
		m.exclude = append(m.exclude, groups.Variants(id))
	}

	return m
}

// Matches reports whether the recipe satisfies every active filter.
func (m *Matcher) Matches(r *Recipe) bool {
	if r.Rating < m.ratingMin || r.Rating > m.ratingMax {
		return false
	}
	if r.NumberOfRatings < m.popularityMin || r.NumberOfRatings > m.popularityMax {
		return false
	}
	if m.language != "" && r.Language != m.language {
		return false
	}
	if !m.matchesTerm(r) {
		return false
	}
	if !m.matchesCategories(r) {
		return false
	}
	for _, variants := range m.include {
		if !anyIngredientContains(r.Ingredients, variants) {
			return false
		}
	}
	for _, variants := range m.exclude {
		if anyIngredientContains(r.Ingredients, variants) {
			return false
		}
	}
	return true
}

func (m *Matcher) matchesTerm(r *Recipe) bool {
	if m.term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Title), m.term) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), m.term) {
		return true
	}
	for _, line := range r.Ingredients {
		if strings.Contains(strings.ToLower(line), m.term) {
			return true
		}
	}
	return false
}

// matchesCategories requires every requested tag, exact and case-sensitive.
func (m *Matcher) matchesCategories(r *Recipe) bool {
	for _, want := range m.categories {
		found := false
		for _, have := range r.Categories {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func anyIngredientContains(lines []string, variants []string) bool {
	for _, line := range lines {
		lowered := strings.ToLower(line)
		for _, v := range variants {
			if strings.Contains(lowered, v) {
				return true
			}
		}
	}
	return false
}
