package catalog

import (
	"encoding/binary"
	"hash/fnv"
	"sort"
)

// SampleKey is the deterministic ordering key of a recipe under a seed. It is
// a pure function of (seed, id): no request state, no stateful shuffle. Equal
// seeds therefore always produce the same total order, which is what makes
// paginating a "random" listing gap-free and duplicate-free.
func SampleKey(seed int64, id int64) uint64 {
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], uint64(seed))
	binary.BigEndian.PutUint64(buf[8:], uint64(id))

	h := fnv.New64a()
	h.Write(buf[:])
	return h.Sum64()
}

// SampleOrder sorts recipes by their sample key under the seed. Hash
// collisions break by recipe id ascending so the order is total.
func SampleOrder(recipes []*Recipe, seed int64) {
	keys := make(map[int64]uint64, len(recipes))
	for _, r := range recipes {
		keys[r.ID] = SampleKey(seed, r.ID)
	}
	sort.Slice(recipes, func(i, j int) bool {
		ki, kj := keys[recipes[i].ID], keys[recipes[j].ID]
		if ki != kj {
			return ki < kj
		}
		return recipes[i].ID < recipes[j].ID
	})
}
