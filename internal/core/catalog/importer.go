package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

// ImportStats summarizes one catalog import run.
type ImportStats struct {
	Files     int `json:"files"`
	Processed int `json:"processed"`
	Inserted  int `json:"inserted"`
	Replaced  int `json:"replaced"`
	Failed    int `json:"failed"`
}

// recipeDocument is the raw shape of a source JSON recipe. Numeric fields come
// in as numbers or strings depending on the scrape batch, so they stay loose
// here and are coerced during normalization.
type recipeDocument struct {
	ID               interface{}   `json:"id,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description,omitempty"`
	Language         string        `json:"language,omitempty"`
	Categories       []string      `json:"categories,omitempty"`
	Rating           interface{}   `json:"rating,omitempty"`
	NumberOfRatings  interface{}   `json:"numberOfRatings,omitempty"`
	PreparationTime  string        `json:"preparationTime,omitempty"`
	TotalTime        string        `json:"totalTime,omitempty"`
	NumberOfPortions interface{}   `json:"numberOfPortions,omitempty"`
	DifficultyLevel  interface{}   `json:"difficultyLevel,omitempty"`
	Ingredients      []string      `json:"ingredients,omitempty"`
	IngredientIDs    []int64       `json:"ingredientIds,omitempty"`
	Recipe           []string      `json:"recipe,omitempty"`
	Tips             []string      `json:"tips,omitempty"`
	UsefulItems      []string      `json:"usefulItems,omitempty"`
	Nutrition        *rawNutrition `json:"nutrition,omitempty"`
}

type rawNutrition struct {
	PerServing string                 `json:"perServing,omitempty"`
	Values     map[string]interface{} `json:"values,omitempty"`
}

type decodedFile struct {
	path    string
	recipes []*Recipe
	err     error
}

// ImportRecipes walks the recipes directory and loads every JSON document
// into the store's database. The directory layout carries metadata: the first
// path element is the language, intermediate directories are category tags;
// documents may override both with explicit fields (snapshot bundles do).
// Decoding runs on a bounded worker pool; all writes go through a single
// transaction since sqlite has one writer anyway.
func ImportRecipes(ctx context.Context, store *Store, dir string, workers int) (*ImportStats, error) {
	if workers <= 0 {
		workers = 1
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk recipes directory: %w", err)
	}

	stats := &ImportStats{Files: len(files)}
	if len(files) == 0 {
		return stats, nil
	}

	jobs := make(chan string)
	results := make(chan decodedFile, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				recipes, err := decodeRecipeFile(dir, path)
				select {
				case results <- decodedFile{path: path, recipes: recipes, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, path := range files {
			select {
			case jobs <- path:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start import transaction: %w", err)
	}
	defer tx.Rollback()

	nextID, err := maxRecipeID(ctx, store)
	if err != nil {
		return nil, err
	}

	for result := range results {
		if result.err != nil {
			stats.Failed++
			common.LogWarn("failed to import recipe file",
				zap.String("path", result.path),
				zap.Error(result.err),
			)
			continue
		}

		for _, r := range result.recipes {
			stats.Processed++
			if r.ID == 0 {
				nextID++
				r.ID = nextID
			} else if r.ID > nextID {
				nextID = r.ID
			}

			replaced, err := insertRecipe(ctx, tx, r)
			if err != nil {
				stats.Failed++
				common.LogWarn("failed to insert recipe",
					zap.Int64("recipe_id", r.ID),
					zap.String("path", result.path),
					zap.Error(err),
				)
				continue
			}
			if replaced {
				stats.Replaced++
			} else {
				stats.Inserted++
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit import: %w", err)
	}

	common.LogInfo("catalog import finished",
		zap.Int("files", stats.Files),
		zap.Int("processed", stats.Processed),
		zap.Int("inserted", stats.Inserted),
		zap.Int("replaced", stats.Replaced),
		zap.Int("failed", stats.Failed),
	)

	return stats, nil
}

func maxRecipeID(ctx context.Context, store *Store) (int64, error) {
	var maxID int64
	err := store.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(id), 0) FROM recipes").Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("failed to read max recipe id: %w", err)
	}
	return maxID, nil
}

func decodeRecipeFile(root, path string) ([]*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// A file holds either one document or an array of them.
	var docs []recipeDocument
	if err := common.ParseJSONBytes(data, &docs); err != nil {
		var single recipeDocument
		if err := common.ParseJSONBytes(data, &single); err != nil {
			return nil, fmt.Errorf("not a recipe document: %w", err)
		}
		docs = []recipeDocument{single}
	}

	language, categories := metadataFromPath(root, path)

	recipes := make([]*Recipe, 0, len(docs))
	for _, doc := range docs {
		recipes = append(recipes, normalizeDocument(doc, language, categories))
	}
	return recipes, nil
}

// metadataFromPath derives (language, categories) from the position of a file
// under the recipes root, e.g. recipes/pl/desserts/cakes/recipes.json.
func metadataFromPath(root, path string) (string, []string) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "unknown", nil
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return "unknown", nil
	}
	return parts[0], parts[1 : len(parts)-1]
}

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	numberPattern     = regexp.MustCompile(`[\d.,]+`)
	integerPattern    = regexp.MustCompile(`\d+`)
)

func normalizeDocument(doc recipeDocument, language string, categories []string) *Recipe {
	if doc.Language != "" {
		language = doc.Language
	}
	if len(doc.Categories) > 0 {
		categories = doc.Categories
	}

	r := &Recipe{
		ID:               coerceID(doc.ID),
		Title:            strings.TrimSpace(doc.Title),
		Description:      strings.TrimSpace(doc.Description),
		Language:         language,
		Categories:       categories,
		Rating:           clampFloat(safeFloat(doc.Rating), RatingFloor, RatingCeiling),
		NumberOfRatings:  safeInt(doc.NumberOfRatings),
		PreparationTime:  strings.TrimSpace(doc.PreparationTime),
		TotalTime:        strings.TrimSpace(doc.TotalTime),
		NumberOfPortions: parsePortions(doc.NumberOfPortions),
		DifficultyLevel:  mapDifficulty(doc.DifficultyLevel),
		Ingredients:      cleanIngredients(doc.Ingredients),
		IngredientIDs:    doc.IngredientIDs,
		Steps:            doc.Recipe,
		Tips:             doc.Tips,
		UsefulItems:      doc.UsefulItems,
		Nutrition:        cleanNutrition(doc.Nutrition),
	}
	if r.NumberOfRatings < 0 {
		r.NumberOfRatings = 0
	}
	return r
}

func coerceID(v interface{}) int64 {
	switch t := v.(type) {
	case json.Number:
		if id, err := t.Int64(); err == nil && id > 0 {
			return id
		}
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil && id > 0 {
			return id
		}
	case float64:
		if t > 0 {
			return int64(t)
		}
	}
	return 0
}

func safeFloat(v interface{}) float64 {
	switch t := v.(type) {
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return f
		}
	case float64:
		return t
	case string:
		// Values come as "4,5", "ok. 3.8" and similar; take the first
		// parseable number in the string.
		for _, m := range numberPattern.FindAllString(strings.ReplaceAll(t, ",", "."), -1) {
			if f, err := strconv.ParseFloat(strings.Trim(m, "."), 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func safeInt(v interface{}) int {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n)
		}
		if f, err := t.Float64(); err == nil {
			return int(f)
		}
	case float64:
		return int(t)
	case string:
		if m := integerPattern.FindString(t); m != "" {
			if n, err := strconv.Atoi(m); err == nil {
				return n
			}
		}
	}
	return 0
}

// parsePortions extracts the integer from values like "2 porcje".
func parsePortions(v interface{}) int {
	return safeInt(v)
}

var difficultyNames = map[string]int{
	"łatwy":        1,
	"easy":         1,
	"średni":       2,
	"medium":       2,
	"zaawansowany": 3,
	"advanced":     3,
	"hard":         3,
}

func mapDifficulty(v interface{}) int {
	switch t := v.(type) {
	case string:
		return difficultyNames[strings.ToLower(strings.TrimSpace(t))]
	default:
		level := safeInt(v)
		if level < 0 || level > 3 {
			return 0
		}
		return level
	}
}

// cleanIngredients collapses newlines and repeated whitespace inside each
// ingredient line.
func cleanIngredients(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned := strings.TrimSpace(whitespacePattern.ReplaceAllString(line, " "))
		if cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func cleanNutrition(raw *rawNutrition) *Nutrition {
	if raw == nil || len(raw.Values) == 0 {
		return nil
	}
	values := make(map[string]float64, len(raw.Values))
	for k, v := range raw.Values {
		values[k] = safeFloat(v)
	}
	return &Nutrition{
		PerServing: strings.TrimSpace(raw.PerServing),
		Values:     values,
	}
}

func insertRecipe(ctx context.Context, tx *sql.Tx, r *Recipe) (replaced bool, err error) {
	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM recipes WHERE id = ?", r.ID).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("failed to check recipe %d: %w", r.ID, err)
	}
	replaced = err == nil

	data, err := encodeRecipeData(r)
	if err != nil {
		return false, fmt.Errorf("failed to encode recipe %d data: %w", r.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
        INSERT OR REPLACE INTO recipes
        (id, title, description, language, rating, number_of_ratings,
         preparation_time, total_time, number_of_portions, difficulty_level, data)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		r.ID, r.Title, r.Description, r.Language, r.Rating, r.NumberOfRatings,
		r.PreparationTime, r.TotalTime, r.NumberOfPortions, r.DifficultyLevel, data,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert recipe %d: %w", r.ID, err)
	}

	for _, cat := range r.Categories {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO categories(name) VALUES (?)", cat); err != nil {
			return false, fmt.Errorf("failed to insert category %q: %w", cat, err)
		}
		if _, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO recipe_categories(recipe_id, category_id)
            SELECT ?, id FROM categories WHERE name = ?
        `, r.ID, cat); err != nil {
			return false, fmt.Errorf("failed to link category %q: %w", cat, err)
		}
	}

	return replaced, nil
}
