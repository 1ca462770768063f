package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	_ "modernc.org/sqlite"

	"recipe-browser/internal/pkg/common"

	"go.uber.org/zap"
)

// ErrRecipeNotFound signals a by-id lookup for a recipe that does not exist.
// It is distinct from a storage failure, which surfaces as a service error.
var ErrRecipeNotFound = errors.New("recipe not found")

// Store is the read-only recipe catalog. The full candidate set is loaded into
// memory once at startup; by-id detail reads go back to the database so the
// listing rows stay small. After Load the in-memory state is never mutated, so
// it is shared across requests without locking.
type Store struct {
	db         *sql.DB
	recipes    []*Recipe
	byID       map[int64]int
	categories []string
	languages  []string
}

// OpenStore opens the catalog database and ensures the schema exists.
func OpenStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, byID: make(map[int64]int)}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS recipes (
        id INTEGER PRIMARY KEY,
        title TEXT NOT NULL,
        description TEXT,
        language TEXT,
        rating REAL,
        number_of_ratings INTEGER,
        preparation_time TEXT,
        total_time TEXT,
        number_of_portions INTEGER,
        difficulty_level INTEGER,
        data TEXT
    );

    CREATE TABLE IF NOT EXISTS categories (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        name TEXT UNIQUE
    );

    CREATE TABLE IF NOT EXISTS recipe_categories (
        recipe_id INTEGER NOT NULL,
        category_id INTEGER NOT NULL,
        FOREIGN KEY (recipe_id) REFERENCES recipes(id) ON DELETE CASCADE,
        FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE,
        PRIMARY KEY (recipe_id, category_id)
    );

    CREATE INDEX IF NOT EXISTS idx_recipes_language ON recipes(language);
    CREATE INDEX IF NOT EXISTS idx_categories_name ON categories(name);
    CREATE INDEX IF NOT EXISTS idx_recipe_categories_recipe ON recipe_categories(recipe_id);
    CREATE INDEX IF NOT EXISTS idx_recipe_categories_category ON recipe_categories(category_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// recipeData is the shape of the data JSON column: the fields not broken out
// into their own columns.
type recipeData struct {
	Ingredients   []string   `json:"ingredients,omitempty"`
	IngredientIDs []int64    `json:"ingredient_ids,omitempty"`
	Steps         []string   `json:"steps,omitempty"`
	Tips          []string   `json:"tips,omitempty"`
	UsefulItems   []string   `json:"useful_items,omitempty"`
	Nutrition     *Nutrition `json:"nutrition,omitempty"`
}

func decodeRecipeData(raw string, r *Recipe) error {
	var d recipeData
	if err := common.ParseJSON(raw, &d); err != nil {
		return err
	}
	r.Ingredients = d.Ingredients
	r.IngredientIDs = d.IngredientIDs
	r.Steps = d.Steps
	r.Tips = d.Tips
	r.UsefulItems = d.UsefulItems
	r.Nutrition = d.Nutrition
	return nil
}

func encodeRecipeData(r *Recipe) (string, error) {
	return common.ToJSON(recipeData{
		Ingredients:   r.Ingredients,
		IngredientIDs: r.IngredientIDs,
		Steps:         r.Steps,
		Tips:          r.Tips,
		UsefulItems:   r.UsefulItems,
		Nutrition:     r.Nutrition,
	})
}

// Count reports the number of recipes in the database (not the loaded set).
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM recipes").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

// Load reads every recipe into memory and precomputes the category and
// language facets. It runs once at startup, before the store is shared.
func (s *Store) Load(ctx context.Context) error {
	categoriesByRecipe, err := s.loadCategoryRelations(ctx)
	if err != nil {
		return err
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT id, title, description, language, rating, number_of_ratings,
               preparation_time, total_time, number_of_portions, difficulty_level, data
        FROM recipes
        ORDER BY id
    `)
	if err != nil {
		return fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*Recipe
	languageSet := make(map[string]bool)
	categorySet := make(map[string]bool)

	for rows.Next() {
		r := &Recipe{}
		var description, language, prepTime, totalTime, data sql.NullString
		var rating sql.NullFloat64
		var numRatings, portions, difficulty sql.NullInt64

		if err := rows.Scan(
			&r.ID, &r.Title, &description, &language, &rating, &numRatings,
			&prepTime, &totalTime, &portions, &difficulty, &data,
		); err != nil {
			return fmt.Errorf("failed to scan recipe: %w", err)
		}

		r.Description = description.String
		r.Language = language.String
		r.Rating = rating.Float64
		r.NumberOfRatings = int(numRatings.Int64)
		r.PreparationTime = prepTime.String
		r.TotalTime = totalTime.String
		r.NumberOfPortions = int(portions.Int64)
		r.DifficultyLevel = int(difficulty.Int64)
		r.Categories = categoriesByRecipe[r.ID]

		if data.Valid && data.String != "" {
			if err := decodeRecipeData(data.String, r); err != nil {
				common.LogWarn("failed to decode recipe data",
					zap.Int64("recipe_id", r.ID),
					zap.Error(err),
				)
			}
		}

		if r.Language != "" {
			languageSet[r.Language] = true
		}
		for _, c := range r.Categories {
			categorySet[c] = true
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate recipes: %w", err)
	}

	s.recipes = recipes
	s.byID = make(map[int64]int, len(recipes))
	for i, r := range recipes {
		s.byID[r.ID] = i
	}
	s.languages = sortedKeys(languageSet)
	s.categories = sortedKeys(categorySet)

	common.LogInfo("catalog loaded",
		zap.Int("recipes", len(s.recipes)),
		zap.Int("languages", len(s.languages)),
		zap.Int("categories", len(s.categories)),
	)

	return nil
}

func (s *Store) loadCategoryRelations(ctx context.Context) (map[int64][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT rc.recipe_id, c.name
        FROM recipe_categories rc
        JOIN categories c ON c.id = rc.category_id
        ORDER BY rc.recipe_id, c.name
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe categories: %w", err)
	}
	defer rows.Close()

	out := make(map[int64][]string)
	for rows.Next() {
		var recipeID int64
		var name string
		if err := rows.Scan(&recipeID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan recipe category: %w", err)
		}
		out[recipeID] = append(out[recipeID], name)
	}
	return out, rows.Err()
}

// All returns the loaded candidate set. Callers must not mutate it.
func (s *Store) All() []*Recipe {
	return s.recipes
}

// Loaded reports whether the in-memory candidate set has been built.
func (s *Store) Loaded() bool {
	return s.recipes != nil
}

// Size reports the number of loaded recipes.
func (s *Store) Size() int {
	return len(s.recipes)
}

// Categories returns the distinct category tags present in the catalog.
func (s *Store) Categories() []string {
	return s.categories
}

// Languages returns the distinct language codes present in the catalog.
func (s *Store) Languages() []string {
	return s.languages
}

// ByID returns the full recipe detail, reading the data column from the
// database. A missing id yields ErrRecipeNotFound; any other failure is a
// storage error.
func (s *Store) ByID(ctx context.Context, id int64) (*Recipe, error) {
	r := &Recipe{}
	var description, language, prepTime, totalTime, data sql.NullString
	var rating sql.NullFloat64
	var numRatings, portions, difficulty sql.NullInt64

	err := s.db.QueryRowContext(ctx, `
        SELECT id, title, description, language, rating, number_of_ratings,
               preparation_time, total_time, number_of_portions, difficulty_level, data
        FROM recipes
        WHERE id = ?
    `, id).Scan(
		&r.ID, &r.Title, &description, &language, &rating, &numRatings,
		&prepTime, &totalTime, &portions, &difficulty, &data,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe %d: %w", id, err)
	}

	r.Description = description.String
	r.Language = language.String
	r.Rating = rating.Float64
	r.NumberOfRatings = int(numRatings.Int64)
	r.PreparationTime = prepTime.String
	r.TotalTime = totalTime.String
	r.NumberOfPortions = int(portions.Int64)
	r.DifficultyLevel = int(difficulty.Int64)

	if data.Valid && data.String != "" {
		if err := decodeRecipeData(data.String, r); err != nil {
			return nil, fmt.Errorf("failed to decode recipe %d data: %w", id, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT c.name
        FROM categories c
        JOIN recipe_categories rc ON rc.category_id = c.id
        WHERE rc.recipe_id = ?
        ORDER BY c.name
    `, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe %d categories: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan recipe category: %w", err)
		}
		r.Categories = append(r.Categories, name)
	}
	return r, rows.Err()
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
