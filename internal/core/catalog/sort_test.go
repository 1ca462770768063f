package catalog

import "testing"

func TestParseDurationMinutes(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"45 min", 45},
		{"45min", 45},
		{"1 h 20 min", 80},
		{"2 h", 120},
		{"1 godz. 30 min", 90},
		{"2 godz.", 120},
		{"1 GODZ 15 MIN", 75},

		// No hour or minute token: first integer is taken as minutes.
		{"ok. 40", 40},
		{"90", 90},

		// No digits at all.
		{"szybko", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := ParseDurationMinutes(tt.input); got != tt.want {
			t.Errorf("ParseDurationMinutes(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestSortRecipesByPreparationTime(t *testing.T) {
	recipes := []*Recipe{
		{ID: 1, PreparationTime: "1 h 20 min"},
		{ID: 2, PreparationTime: "45 min"},
		{ID: 3, PreparationTime: "2 h"},
	}

	SortRecipes(recipes, SortPreparationTime, false)
	wantAsc := []int64{2, 1, 3}
	for i, want := range wantAsc {
		if recipes[i].ID != want {
			t.Fatalf("ascending position %d: got id %d, want %d", i, recipes[i].ID, want)
		}
	}

	SortRecipes(recipes, SortPreparationTime, true)
	wantDesc := []int64{3, 1, 2}
	for i, want := range wantDesc {
		if recipes[i].ID != want {
			t.Fatalf("descending position %d: got id %d, want %d", i, recipes[i].ID, want)
		}
	}
}

func TestSortRecipesTieBreaksByID(t *testing.T) {
	recipes := []*Recipe{
		{ID: 7, Rating: 4.5},
		{ID: 3, Rating: 4.5},
		{ID: 5, Rating: 4.5},
	}

	// Equal primary keys must order by id ascending in both directions.
	SortRecipes(recipes, SortRating, true)
	want := []int64{3, 5, 7}
	for i, id := range want {
		if recipes[i].ID != id {
			t.Fatalf("position %d: got id %d, want %d", i, recipes[i].ID, id)
		}
	}
}

func TestSortRecipesUnknownFieldLeavesOrder(t *testing.T) {
	recipes := []*Recipe{{ID: 2}, {ID: 1}}
	SortRecipes(recipes, SortNone, false)
	if recipes[0].ID != 2 || recipes[1].ID != 1 {
		t.Fatalf("SortNone must not reorder, got %d,%d", recipes[0].ID, recipes[1].ID)
	}
}
