package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

// GroupIndex maps canonical ingredient group ids to the literal name variants
// that should be treated as equivalent when filtering. It is built once at
// startup and read-only afterwards, so it is shared across requests without
// locking.
type GroupIndex struct {
	variants  map[string][]string
	byVariant map[string]string
	conflicts int
}

// defaultGroups covers the common pantry concepts of the catalog. The variant
// lists carry the morphological and localized forms the matcher should accept;
// the index does no stemming of its own.
var defaultGroups = map[string][]string{
	"tomato":   {"tomato", "tomatoes", "cherry tomato", "tomato paste", "pomidor", "pomidory", "pomidorki"},
	"onion":    {"onion", "onions", "red onion", "spring onion", "cebula", "cebulka"},
	"garlic":   {"garlic", "garlic clove", "czosnek", "ząbek czosnku", "ząbki czosnku"},
	"chicken":  {"chicken", "chicken breast", "chicken thigh", "kurczak", "pierś z kurczaka", "udka"},
	"beef":     {"beef", "ground beef", "minced beef", "wołowina", "mięso wołowe"},
	"pork":     {"pork", "pork loin", "bacon", "wieprzowina", "boczek", "schab"},
	"egg":      {"egg", "eggs", "egg yolk", "egg white", "jajko", "jajka", "żółtko", "białko"},
	"milk":     {"milk", "whole milk", "mleko"},
	"butter":   {"butter", "masło"},
	"cheese":   {"cheese", "grated cheese", "parmesan", "mozzarella", "ser", "ser żółty", "parmezan"},
	"cream":    {"cream", "heavy cream", "sour cream", "śmietana", "śmietanka"},
	"flour":    {"flour", "wheat flour", "mąka", "mąka pszenna"},
	"sugar":    {"sugar", "brown sugar", "cukier", "cukier puder"},
	"potato":   {"potato", "potatoes", "ziemniak", "ziemniaki"},
	"mushroom": {"mushroom", "mushrooms", "pieczarki", "grzyby"},
	"pepper":   {"bell pepper", "red pepper", "green pepper", "papryka"},
	"rice":     {"rice", "basmati rice", "ryż"},
	"pasta":    {"pasta", "spaghetti", "penne", "makaron"},
	"fish":     {"fish", "salmon", "cod", "tuna", "ryba", "łosoś", "dorsz", "tuńczyk"},
	"nuts":     {"almonds", "walnuts", "hazelnuts", "peanuts", "orzechy", "migdały"},
}

// NewGroupIndex builds the index from a grouping table. A variant claimed by
// more than one group keeps the last assignment; the collision is counted and
// reported, not fatal.
func NewGroupIndex(table map[string][]string) *GroupIndex {
	idx := &GroupIndex{
		variants:  make(map[string][]string, len(table)),
		byVariant: make(map[string]string),
	}

	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	// Deterministic build order so last-write-wins is reproducible.
	sort.Strings(ids)

	for _, id := range ids {
		lowered := make([]string, 0, len(table[id]))
		for _, v := range table[id] {
			lv := strings.ToLower(strings.TrimSpace(v))
			if lv == "" {
				continue
			}
			lowered = append(lowered, lv)
			if prev, taken := idx.byVariant[lv]; taken && prev != id {
				idx.conflicts++
				common.LogWarn("ingredient variant mapped to multiple groups",
					zap.String("variant", lv),
					zap.String("previous_group", prev),
					zap.String("group", id),
				)
			}
			idx.byVariant[lv] = id
		}
		idx.variants[id] = lowered
	}

	return idx
}

// LoadGroupIndex builds the index from a JSON grouping file, or from the
// built-in table when path is empty.
func LoadGroupIndex(path string) (*GroupIndex, error) {
	if path == "" {
		return NewGroupIndex(defaultGroups), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grouping table: %w", err)
	}

	var table map[string][]string
	if err := common.ParseJSONBytes(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse grouping table: %w", err)
	}

	return NewGroupIndex(table), nil
}

// Variants returns the variant set of a group id. A group id with no mapping
// is its own singleton group.
func (g *GroupIndex) Variants(groupID string) []string {
	id := strings.ToLower(strings.TrimSpace(groupID))
	if vs, ok := g.variants[id]; ok && len(vs) > 0 {
		return vs
	}
	return []string{id}
}

// Matches reports whether an ingredient line contains any variant of the
// group. Recipe ingredient lines carry quantities and adjectives, so matching
// is case-insensitive substring, not token equality.
func (g *GroupIndex) Matches(groupID, ingredientLine string) bool {
	line := strings.ToLower(ingredientLine)
	for _, v := range g.Variants(groupID) {
		if strings.Contains(line, v) {
			return true
		}
	}
	return false
}

// GroupsOf returns the ids of every group with a variant occurring in the
// ingredient line, sorted for stable output.
func (g *GroupIndex) GroupsOf(ingredientLine string) []string {
	line := strings.ToLower(ingredientLine)
	seen := make(map[string]bool)
	for variant, id := range g.byVariant {
		if !seen[id] && strings.Contains(line, variant) {
			seen[id] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Groups returns a copy of the full grouping table, sorted by group id.
func (g *GroupIndex) Groups() map[string][]string {
	out := make(map[string][]string, len(g.variants))
	for id, vs := range g.variants {
		cp := make([]string, len(vs))
		copy(cp, vs)
		sort.Strings(cp)
		out[id] = cp
	}
	return out
}

// Conflicts reports how many variants were claimed by more than one group in
// the source table.
func (g *GroupIndex) Conflicts() int {
	return g.conflicts
}

// Size reports the number of groups in the index.
func (g *GroupIndex) Size() int {
	return len(g.variants)
}
