package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"recipe-browser/internal/core/catalog/cache"
	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

// Service is the recipe query engine: it turns a Query into a deterministic,
// paginated, ordered subset of the catalog. Requests are stateless; the store
// and group index are read-only after startup, so Search is safe to call
// concurrently.
type Service struct {
	store           *Store
	groups          *GroupIndex
	results         *cache.Service
	details         *cache.Manager
	defaultPageSize int
	maxPageSize     int
}

// NewService wires the engine together. results and details may be nil when
// caching is off.
func NewService(store *Store, groups *GroupIndex, results *cache.Service, details *cache.Manager, defaultPageSize, maxPageSize int) *Service {
	return &Service{
		store:           store,
		groups:          groups,
		results:         results,
		details:         details,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Search filters, orders and paginates the catalog. The ordering is the sort
// evaluator when a sort field is set, otherwise the deterministic sampler
// keyed by the query seed, so re-requesting any page of the same query yields
// the same slice of the same total order.
func (s *Service) Search(ctx context.Context, q Query) (*ResultPage, error) {
	if !s.store.Loaded() {
		return nil, fmt.Errorf("catalog not loaded")
	}

	q.Normalize(s.defaultPageSize, s.maxPageSize)

	key := searchCacheKey(q)
	if s.results.Enabled() {
		if data, err := s.results.Get(ctx, key); err == nil {
			var page ResultPage
			if err := common.ParseJSONBytes(data, &page); err == nil {
				common.LogDebug("search cache hit", zap.String("key", key))
				return &page, nil
			}
		}
	}

	matcher := NewMatcher(q, s.groups)
	var matched []*Recipe
	for _, r := range s.store.All() {
		if matcher.Matches(r) {
			matched = append(matched, r)
		}
	}

	if q.Sort != SortNone {
		SortRecipes(matched, q.Sort, q.SortDescending)
	} else {
		SampleOrder(matched, q.Seed)
	}

	page := paginate(matched, q)

	if s.results.Enabled() {
		if data, err := common.ToJSON(page); err == nil {
			if err := s.results.Set(ctx, key, []byte(data)); err != nil {
				common.LogDebug("failed to cache search page", zap.Error(err))
			}
		}
	}

	return page, nil
}

// paginate slices the ordered result. Pages below 1 or past the end are a
// valid empty answer carrying the true total.
func paginate(ordered []*Recipe, q Query) *ResultPage {
	page := &ResultPage{
		Items:   []Summary{},
		Total:   len(ordered),
		Page:    q.Page,
		PerPage: q.PageSize,
		Seed:    q.Seed,
	}

	if q.Page < 1 {
		return page
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(ordered) {
		return page
	}
	end := start + q.PageSize
	if end > len(ordered) {
		end = len(ordered)
	}

	page.Items = make([]Summary, 0, end-start)
	for _, r := range ordered[start:end] {
		page.Items = append(page.Items, r.Summarize())
	}
	return page
}

// Recipe returns full recipe detail by id, consulting the in-memory detail
// cache before the database.
func (s *Service) Recipe(ctx context.Context, id int64) (*Recipe, error) {
	key := "recipe:" + strconv.FormatInt(id, 10)
	if s.details != nil {
		if raw, ok := s.details.Get(key); ok {
			var r Recipe
			if err := common.ParseJSON(raw, &r); err == nil {
				return &r, nil
			}
		}
	}

	r, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.details != nil {
		if raw, err := common.ToJSON(r); err == nil {
			s.details.Set(key, raw)
		}
	}
	return r, nil
}

// Ready reports whether the catalog is loaded and non-empty.
func (s *Service) Ready() bool {
	return s.store.Loaded() && s.store.Size() > 0
}

// Categories returns the distinct category tags of the catalog.
func (s *Service) Categories() []string {
	return s.store.Categories()
}

// Languages returns the distinct language codes of the catalog.
func (s *Service) Languages() []string {
	return s.store.Languages()
}

// IngredientGroups returns the full grouping table for filter UIs.
func (s *Service) IngredientGroups() map[string][]string {
	return s.groups.Groups()
}

// Stats reports engine counters for the health endpoint.
func (s *Service) Stats() map[string]interface{} {
	stats := map[string]interface{}{
		"recipes":           s.store.Size(),
		"languages":         len(s.store.Languages()),
		"categories":        len(s.store.Categories()),
		"ingredient_groups": s.groups.Size(),
		"group_conflicts":   s.groups.Conflicts(),
	}
	if s.details != nil {
		stats["detail_cache"] = s.details.Stats()
	}
	stats["result_cache_enabled"] = s.results.Enabled()
	return stats
}

// searchCacheKey builds a canonical cache key from every field that affects
// the result. Slice filters are sorted copies so equivalent queries share an
// entry.
func searchCacheKey(q Query) string {
	parts := []string{
		q.Term,
		strconv.FormatFloat(q.RatingMin, 'f', -1, 64),
		strconv.FormatFloat(q.RatingMax, 'f', -1, 64),
		strconv.Itoa(q.PopularityMin),
		strconv.Itoa(q.PopularityMax),
		joinSorted(q.Languages),
		joinSorted(q.Categories),
		joinSorted(q.IncludeGroups),
		joinSorted(q.ExcludeGroups),
		string(q.Sort),
		strconv.FormatBool(q.SortDescending),
		strconv.Itoa(q.Page),
		strconv.Itoa(q.PageSize),
		strconv.FormatInt(q.Seed, 10),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "search:" + hex.EncodeToString(sum[:])
}

func joinSorted(values []string) string {
	cp := make([]string, len(values))
	copy(cp, values)
	sort.Strings(cp)
	return strings.Join(cp, ",")
}
