package catalog

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Duration strings in the catalog are uncontrolled free text, e.g. "45 min",
// "1 h 20 min" or the localized "1 godz. 30 min". The patterns accept the
// default hour abbreviation and the localized one the source data uses.
var (
	hourPattern   = regexp.MustCompile(`(\d+)\s*(?:godz|h)`)
	minutePattern = regexp.MustCompile(`(\d+)\s*min`)
	digitPattern  = regexp.MustCompile(`\d+`)
)

// ParseDurationMinutes normalizes a free-text duration string to total
// minutes. When neither an hour nor a minute token matches, the first integer
// in the string is taken as minutes; a string without digits is 0.
func ParseDurationMinutes(s string) int {
	if s == "" {
		return 0
	}
	lowered := strings.ToLower(s)

	total := 0
	matched := false
	if m := hourPattern.FindStringSubmatch(lowered); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil {
			total += hours * 60
			matched = true
		}
	}
	if m := minutePattern.FindStringSubmatch(lowered); m != nil {
		if minutes, err := strconv.Atoi(m[1]); err == nil {
			total += minutes
			matched = true
		}
	}
	if matched {
		return total
	}

	if m := digitPattern.FindString(lowered); m != "" {
		if minutes, err := strconv.Atoi(m); err == nil {
			return minutes
		}
	}
	return 0
}

// SortRecipes orders recipes by the requested field. Equal primary values
// break by recipe id ascending regardless of direction, so the order is total
// and independent of input order.
func SortRecipes(recipes []*Recipe, field SortField, descending bool) {
	var key func(*Recipe) float64
	switch field {
	case SortRating:
		key = func(r *Recipe) float64 { return r.Rating }
	case SortNumberOfRatings:
		key = func(r *Recipe) float64 { return float64(r.NumberOfRatings) }
	case SortPreparationTime:
		key = func(r *Recipe) float64 { return float64(ParseDurationMinutes(r.PreparationTime)) }
	case SortTotalTime:
		key = func(r *Recipe) float64 { return float64(ParseDurationMinutes(r.TotalTime)) }
	default:
		return
	}

	sort.Slice(recipes, func(i, j int) bool {
		ki, kj := key(recipes[i]), key(recipes[j])
		if ki != kj {
			if descending {
				return ki > kj
			}
			return ki < kj
		}
		return recipes[i].ID < recipes[j].ID
	})
}
