package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeRecipeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestImportRecipes(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "pl/zupy/pomidorowa.json", `{
        "title": "  Zupa pomidorowa ",
        "rating": "4,5",
        "numberOfRatings": 230,
        "preparationTime": "45 min",
        "totalTime": "1 godz. 15 min",
        "numberOfPortions": "4 porcje",
        "difficultyLevel": "łatwy",
        "ingredients": ["500 g   pomidorów", "1 cebula", "  "],
        "recipe": ["Pokrój", "Gotuj"]
    }`)
	writeRecipeFile(t, dir, "en/soups/batch.json", `[
        {"title": "Tomato soup", "rating": 3.8, "difficultyLevel": 2},
        {"title": "Broth", "rating": 4.1, "difficultyLevel": "medium"}
    ]`)
	writeRecipeFile(t, dir, "pl/zupy/broken.json", `{not json`)

	store, err := OpenStore(filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	stats, err := ImportRecipes(ctx, store, dir, 2)
	if err != nil {
		t.Fatalf("ImportRecipes: %v", err)
	}

	if stats.Files != 3 {
		t.Errorf("Files = %d, want 3", stats.Files)
	}
	if stats.Inserted != 3 {
		t.Errorf("Inserted = %d, want 3", stats.Inserted)
	}
	if stats.Failed != 1 {
		t.Errorf("Failed = %d, want 1 for the broken file", stats.Failed)
	}

	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	var soup *Recipe
	for _, r := range store.All() {
		if r.Title == "Zupa pomidorowa" {
			soup = r
		}
	}
	if soup == nil {
		t.Fatalf("imported recipe not found, loaded %d recipes", store.Size())
	}

	if soup.Language != "pl" {
		t.Errorf("Language = %q, want pl from the directory layout", soup.Language)
	}
	if len(soup.Categories) != 1 || soup.Categories[0] != "zupy" {
		t.Errorf("Categories = %v, want [zupy]", soup.Categories)
	}
	if soup.Rating != 4.5 {
		t.Errorf("Rating = %v, want 4.5 from the comma decimal", soup.Rating)
	}
	if soup.NumberOfRatings != 230 {
		t.Errorf("NumberOfRatings = %d, want 230", soup.NumberOfRatings)
	}
	if soup.NumberOfPortions != 4 {
		t.Errorf("NumberOfPortions = %d, want 4 from %q", soup.NumberOfPortions, "4 porcje")
	}
	if soup.DifficultyLevel != 1 {
		t.Errorf("DifficultyLevel = %d, want 1", soup.DifficultyLevel)
	}
	// Whitespace collapses, empty lines are dropped.
	if len(soup.Ingredients) != 2 || soup.Ingredients[0] != "500 g pomidorów" {
		t.Errorf("Ingredients = %v", soup.Ingredients)
	}

	langs := store.Languages()
	if len(langs) != 2 {
		t.Errorf("Languages = %v, want en and pl", langs)
	}
}

func TestImportRecipesReplacesByID(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "en/misc/one.json", `{"id": 10, "title": "First"}`)

	store, err := OpenStore(filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := ImportRecipes(ctx, store, dir, 1); err != nil {
		t.Fatalf("first import: %v", err)
	}

	writeRecipeFile(t, dir, "en/misc/one.json", `{"id": 10, "title": "Second"}`)
	stats, err := ImportRecipes(ctx, store, dir, 1)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if stats.Replaced != 1 || stats.Inserted != 0 {
		t.Fatalf("stats = %+v, want exactly one replacement", stats)
	}

	r, err := store.ByID(ctx, 10)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if r.Title != "Second" {
		t.Errorf("Title = %q, want the replacing document", r.Title)
	}
}

func TestMetadataFromPath(t *testing.T) {
	tests := []struct {
		rel      string
		wantLang string
		wantCats []string
	}{
		{"pl/zupy/a.json", "pl", []string{"zupy"}},
		{"en/desserts/cakes/b.json", "en", []string{"desserts", "cakes"}},
		{"en/c.json", "en", nil},
		{"d.json", "unknown", nil},
	}

	root := string(filepath.Separator) + "recipes"
	for _, tt := range tests {
		lang, cats := metadataFromPath(root, filepath.Join(root, filepath.FromSlash(tt.rel)))
		if lang != tt.wantLang {
			t.Errorf("%s: language = %q, want %q", tt.rel, lang, tt.wantLang)
		}
		if len(cats) != len(tt.wantCats) {
			t.Errorf("%s: categories = %v, want %v", tt.rel, cats, tt.wantCats)
			continue
		}
		for i := range cats {
			if cats[i] != tt.wantCats[i] {
				t.Errorf("%s: categories = %v, want %v", tt.rel, cats, tt.wantCats)
			}
		}
	}
}

func TestDocumentOverridesPathMetadata(t *testing.T) {
	dir := t.TempDir()
	writeRecipeFile(t, dir, "snapshot/bundle.json", `[
        {"title": "Bundle dish", "language": "en", "categories": ["dinner"]}
    ]`)

	store, err := OpenStore(filepath.Join(t.TempDir(), "import.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := ImportRecipes(ctx, store, dir, 1); err != nil {
		t.Fatalf("ImportRecipes: %v", err)
	}
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	r := store.All()[0]
	if r.Language != "en" {
		t.Errorf("Language = %q, want the document field to win", r.Language)
	}
	if len(r.Categories) != 1 || r.Categories[0] != "dinner" {
		t.Errorf("Categories = %v, want [dinner]", r.Categories)
	}
}

func TestSafeFloatAndInt(t *testing.T) {
	if got := safeFloat("4,5"); got != 4.5 {
		t.Errorf("safeFloat(4,5) = %v, want 4.5", got)
	}
	if got := safeFloat("ok. 3.8 gwiazdki"); got != 3.8 {
		t.Errorf("safeFloat = %v, want 3.8", got)
	}
	if got := safeFloat("brak"); got != 0 {
		t.Errorf("safeFloat(brak) = %v, want 0", got)
	}
	if got := safeInt("12 ocen"); got != 12 {
		t.Errorf("safeInt = %d, want 12", got)
	}
}

func TestMapDifficulty(t *testing.T) {
	tests := []struct {
		input interface{}
		want  int
	}{
		{"łatwy", 1},
		{"ŁATWY", 1},
		{"średni", 2},
		{"zaawansowany", 3},
		{"easy", 1},
		{"unknown label", 0},
		{float64(2), 2},
		{float64(9), 0},
		{nil, 0},
	}

	for _, tt := range tests {
		if got := mapDifficulty(tt.input); got != tt.want {
			t.Errorf("mapDifficulty(%v) = %d, want %d", tt.input, got, tt.want)
		}
	}
}
