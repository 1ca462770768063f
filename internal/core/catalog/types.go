package catalog

// Recipe is a single catalog entry. Recipes are created at load time and never
// mutated afterwards; every consumer treats them as read-only.
type Recipe struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Description      string     `json:"description,omitempty"`
	Language         string     `json:"language"`
	Ingredients      []string   `json:"ingredients"`
	IngredientIDs    []int64    `json:"ingredient_ids,omitempty"`
	Categories       []string   `json:"categories"`
	Rating           float64    `json:"rating"`
	NumberOfRatings  int        `json:"number_of_ratings"`
	PreparationTime  string     `json:"preparation_time"`
	TotalTime        string     `json:"total_time"`
	NumberOfPortions int        `json:"number_of_portions"`
	DifficultyLevel  int        `json:"difficulty_level"`
	Steps            []string   `json:"steps,omitempty"`
	Tips             []string   `json:"tips,omitempty"`
	UsefulItems      []string   `json:"useful_items,omitempty"`
	Nutrition        *Nutrition `json:"nutrition,omitempty"`
}

// Nutrition is the optional per-recipe nutrition table.
type Nutrition struct {
	PerServing string             `json:"per_serving,omitempty"`
	Values     map[string]float64 `json:"values,omitempty"`
}

// Summary is the listing view of a recipe.
type Summary struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Language        string  `json:"language"`
	Rating          float64 `json:"rating"`
	NumberOfRatings int     `json:"number_of_ratings"`
	PreparationTime string  `json:"preparation_time"`
	TotalTime       string  `json:"total_time"`
	DifficultyLevel int     `json:"difficulty_level"`
}

// Summarize returns the listing view of r.
func (r *Recipe) Summarize() Summary {
	return Summary{
		ID:              r.ID,
		Title:           r.Title,
		Language:        r.Language,
		Rating:          r.Rating,
		NumberOfRatings: r.NumberOfRatings,
		PreparationTime: r.PreparationTime,
		TotalTime:       r.TotalTime,
		DifficultyLevel: r.DifficultyLevel,
	}
}

// ResultPage is one page of search results together with the total match count.
type ResultPage struct {
	Items   []Summary `json:"items"`
	Total   int       `json:"total"`
	Page    int       `json:"page"`
	PerPage int       `json:"per_page"`
	Seed    int64     `json:"seed"`
}

// SortField selects the sort evaluator field.
type SortField string

const (
	SortNone            SortField = ""
	SortRating          SortField = "rating"
	SortNumberOfRatings SortField = "numberOfRatings"
	SortPreparationTime SortField = "preparationTime"
	SortTotalTime       SortField = "totalTime"
)

// ParseSortField maps a request value onto a known sort field. Unknown values
// map to SortNone, which routes the query through the deterministic sampler.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortRating, SortNumberOfRatings, SortPreparationTime, SortTotalTime:
		return SortField(s)
	default:
		return SortNone
	}
}
