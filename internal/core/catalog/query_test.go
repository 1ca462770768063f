package catalog

import "testing"

func TestSnapPopularity(t *testing.T) {
	tests := []struct {
		input int
		want  int
	}{
		{-5, 0},
		{0, 0},
		{4, 0},
		{14, 10},
		{16, 20},
		{100, 100},
		{149, 100},
		{460, 500},
		{5400, 5000},
		{26000, 30000},
		{30000, 30000},
		{999999, 30000},
	}

	for _, tt := range tests {
		if got := SnapPopularity(tt.input); got != tt.want {
			t.Errorf("SnapPopularity(%d) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeClampsRatings(t *testing.T) {
	q := Query{RatingMin: -3, RatingMax: 9.5}
	q.Normalize(20, 200)

	if q.RatingMin != RatingFloor {
		t.Errorf("RatingMin = %v, want %v", q.RatingMin, RatingFloor)
	}
	if q.RatingMax != RatingCeiling {
		t.Errorf("RatingMax = %v, want %v", q.RatingMax, RatingCeiling)
	}
}

func TestNormalizeSnapsPopularity(t *testing.T) {
	q := Query{PopularityMin: 37, PopularityMax: 123456}
	q.Normalize(20, 200)

	if q.PopularityMin != 40 {
		t.Errorf("PopularityMin = %d, want 40", q.PopularityMin)
	}
	if q.PopularityMax != 30000 {
		t.Errorf("PopularityMax = %d, want 30000", q.PopularityMax)
	}
}

func TestNormalizePageSize(t *testing.T) {
	tests := []struct {
		name     string
		pageSize int
		want     int
	}{
		{"zero takes default", 0, 20},
		{"negative takes default", -5, 20},
		{"in range kept", 50, 50},
		{"above max clamps", 5000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Query{PageSize: tt.pageSize}
			q.Normalize(20, 200)
			if q.PageSize != tt.want {
				t.Errorf("PageSize = %d, want %d", q.PageSize, tt.want)
			}
		})
	}
}

func TestNormalizeLeavesPageAlone(t *testing.T) {
	// Out-of-range pages are a valid empty answer, not an input error.
	for _, page := range []int{-1, 0, 1, 99999} {
		q := Query{Page: page}
		q.Normalize(20, 200)
		if q.Page != page {
			t.Errorf("Page %d was changed to %d", page, q.Page)
		}
	}
}

func TestNormalizeDropsUnknownSort(t *testing.T) {
	q := Query{Sort: SortField("bogus")}
	q.Normalize(20, 200)
	if q.Sort != SortNone {
		t.Errorf("Sort = %q, want SortNone", q.Sort)
	}

	q = Query{Sort: SortRating}
	q.Normalize(20, 200)
	if q.Sort != SortRating {
		t.Errorf("Sort = %q, want %q", q.Sort, SortRating)
	}
}
