package catalog

// Query is the request-scoped filter description. It is a plain value object;
// every randomized ordering decision is driven by the explicit Seed field so
// that two requests carrying the same query are interchangeable.
type Query struct {
	Term           string
	RatingMin      float64
	RatingMax      float64
	PopularityMin  int
	PopularityMax  int
	Languages      []string
	Categories     []string
	IncludeGroups  []string
	ExcludeGroups  []string
	Sort           SortField
	SortDescending bool
	Page           int
	PageSize       int
	Seed           int64
	Randomize      bool
}

const (
	// Rating bounds of the catalog scale.
	RatingFloor   = 0.0
	RatingCeiling = 5.0

	// DefaultPageSize and MaxPageSize bound the page size when the caller
	// supplied something unusable.
	DefaultPageSize = 20
	MaxPageSize     = 200
)

// PopularitySteps is the non-linear scale the popularity slider snaps to. The
// number-of-ratings distribution is long tailed, so the steps widen as the
// values grow.
var PopularitySteps = buildPopularitySteps()

func buildPopularitySteps() []int {
	steps := []int{0}
	for v := 10; v <= 100; v += 10 {
		steps = append(steps, v)
	}
	for v := 200; v <= 1000; v += 100 {
		steps = append(steps, v)
	}
	for v := 2000; v <= 10000; v += 1000 {
		steps = append(steps, v)
	}
	for v := 20000; v <= 30000; v += 10000 {
		steps = append(steps, v)
	}
	return steps
}

// SnapPopularity clamps v onto the nearest value of the popularity step scale.
func SnapPopularity(v int) int {
	if v <= PopularitySteps[0] {
		return PopularitySteps[0]
	}
	last := PopularitySteps[len(PopularitySteps)-1]
	if v >= last {
		return last
	}
	best := PopularitySteps[0]
	for _, step := range PopularitySteps {
		if abs(v-step) < abs(v-best) {
			best = step
		}
	}
	return best
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Normalize clamps out-of-range values onto valid bounds. Filters are
// advisory, so malformed input widens or snaps instead of failing; the only
// field left untouched is Page, because an out-of-range page is a valid empty
// answer rather than an input error.
func (q *Query) Normalize(defaultPageSize, maxPageSize int) {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if maxPageSize < defaultPageSize {
		maxPageSize = MaxPageSize
	}

	q.RatingMin = clampFloat(q.RatingMin, RatingFloor, RatingCeiling)
	q.RatingMax = clampFloat(q.RatingMax, RatingFloor, RatingCeiling)

	q.PopularityMin = SnapPopularity(q.PopularityMin)
	q.PopularityMax = SnapPopularity(q.PopularityMax)

	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	q.Sort = ParseSortField(string(q.Sort))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
