package recipe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"recipe-browser/internal/core/catalog"
	"recipe-browser/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func testConfig() *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			DefaultPageSize: 20,
			MaxPageSize:     200,
		},
	}
}

func newTestRouter(t *testing.T, recipeCount int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	for i := 1; i <= recipeCount; i++ {
		doc := fmt.Sprintf(`{"id": %d, "title": "Recipe %d", "rating": %d.5, "numberOfRatings": %d}`,
			i, i, i%4, i*10)
		path := filepath.Join(dir, "en", "misc", fmt.Sprintf("r%d.json", i))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	store, err := catalog.OpenStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	if _, err := catalog.ImportRecipes(ctx, store, dir, 2); err != nil {
		t.Fatalf("ImportRecipes: %v", err)
	}
	if err := store.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	groups, err := catalog.LoadGroupIndex("")
	if err != nil {
		t.Fatalf("LoadGroupIndex: %v", err)
	}

	svc := catalog.NewService(store, groups, nil, nil, 20, 200)
	handler := NewHandler(svc, testConfig())

	router := gin.New()
	router.GET("/api/v1/recipes", handler.HandleSearch)
	router.GET("/api/v1/recipes/:id", handler.HandleRecipe)
	router.GET("/api/v1/categories", handler.HandleCategories)
	router.GET("/api/v1/languages", handler.HandleLanguages)
	router.GET("/api/v1/ingredients/groups", handler.HandleIngredientGroups)
	return router
}

func doSearch(t *testing.T, router *gin.Engine, query string) *catalog.ResultPage {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes"+query, nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GET /recipes%s: status %d, body %s", query, w.Code, w.Body.String())
	}
	var page catalog.ResultPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("unmarshal result page: %v", err)
	}
	return &page
}

func TestHandleSearchDefaults(t *testing.T) {
	router := newTestRouter(t, 5)

	page := doSearch(t, router, "")
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if page.Page != 1 || page.PerPage != 20 {
		t.Errorf("Page/PerPage = %d/%d, want 1/20", page.Page, page.PerPage)
	}
}

func TestHandleSearchSeedEchoed(t *testing.T) {
	router := newTestRouter(t, 30)

	a := doSearch(t, router, "?seed=99&per_page=10")
	b := doSearch(t, router, "?seed=99&per_page=10")
	if a.Seed != 99 || b.Seed != 99 {
		t.Fatalf("seeds = %d/%d, want 99", a.Seed, b.Seed)
	}
	for i := range a.Items {
		if a.Items[i].ID != b.Items[i].ID {
			t.Fatal("same seed produced different pages")
		}
	}
}

func TestHandleSearchRandomizeDrawsSeed(t *testing.T) {
	router := newTestRouter(t, 5)

	page := doSearch(t, router, "?randomize=true")
	if page.Seed == 0 {
		t.Error("randomize without a seed should draw and echo one")
	}
}

func TestHandleSearchMalformedParamsFallBack(t *testing.T) {
	router := newTestRouter(t, 5)

	// Garbage values never produce an error status, they fall back to
	// defaults.
	page := doSearch(t, router, "?rating_min=banana&page=x&per_page=-3&sort=bogus")
	if page.Total != 5 {
		t.Errorf("Total = %d, want 5", page.Total)
	}
	if page.Page != 1 || page.PerPage != 20 {
		t.Errorf("Page/PerPage = %d/%d, want defaults 1/20", page.Page, page.PerPage)
	}
}

func TestHandleSearchPageBeyondEnd(t *testing.T) {
	router := newTestRouter(t, 5)

	page := doSearch(t, router, "?page=40")
	if len(page.Items) != 0 {
		t.Errorf("Items = %d, want 0", len(page.Items))
	}
	if page.Total != 5 {
		t.Errorf("Total = %d, want the true total 5", page.Total)
	}
}

func TestHandleSearchPerPageClamped(t *testing.T) {
	router := newTestRouter(t, 5)

	page := doSearch(t, router, "?per_page=100000")
	if page.PerPage != 200 {
		t.Errorf("PerPage = %d, want the max 200", page.PerPage)
	}
}

func TestHandleRecipeDetail(t *testing.T) {
	router := newTestRouter(t, 3)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes/2", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", w.Code, w.Body.String())
	}
	var r catalog.Recipe
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("unmarshal recipe: %v", err)
	}
	if r.ID != 2 || r.Title != "Recipe 2" {
		t.Errorf("got id %d title %q", r.ID, r.Title)
	}
}

func TestHandleRecipeNotFound(t *testing.T) {
	router := newTestRouter(t, 3)

	for _, path := range []string{"/api/v1/recipes/999", "/api/v1/recipes/abc"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("GET %s: status %d, want 404", path, w.Code)
		}
	}
}

func TestHandleFacets(t *testing.T) {
	router := newTestRouter(t, 3)

	tests := []struct {
		path string
		key  string
	}{
		{"/api/v1/categories", "categories"},
		{"/api/v1/languages", "languages"},
		{"/api/v1/ingredients/groups", "groups"},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d", tt.path, w.Code)
		}
		var body map[string]json.RawMessage
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.path, err)
		}
		if _, ok := body[tt.key]; !ok {
			t.Errorf("GET %s: response missing %q", tt.path, tt.key)
		}
	}
}
