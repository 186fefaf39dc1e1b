package repository

import (
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scsmith60/messhall/internal/cache"
	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/db"
	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/util"
	"github.com/scsmith60/messhall/internal/util/compression"
)

const recipeScalarColumns = `id, user_id, title, body, body_hash, source_url, image_url,
	servings, prep_minutes, cook_minutes, private, modified_at, created_at`

type DBRecipeRepository struct { // implements RecipeRepository
	recipesCache *cache.Cache[string, *model.Recipe]

	reloadNotifier   func(model.RecipeID)
	lastModifiedTime *time.Time // Track the latest modification time

	db         db.DB
	compressor compression.Compressor
}

func NewDBRecipeRepository(db db.DB) *DBRecipeRepository {
	return &DBRecipeRepository{
		recipesCache: cache.NewCache[string, *model.Recipe](),

		db: db,

		compressor: compression.ZstdCompressor{},
	}
}

func (r *DBRecipeRepository) Init() {
	recipeMap, err := r.loadRecipes()
	if err != nil {
		repoLogger.Fatal().Err(err).Msg(config.ErrInitializingRecipes)
	}

	r.recipesCache.SetTo(recipeMap)

	go r.reloadLoop()
}

func (r *DBRecipeRepository) GetLatestModifiedTime() (*time.Time, error) {
	var latestTimeStr sql.NullString
	row := r.db.QueryRow(`SELECT MAX(modified_at) FROM recipes`)
	err := row.Scan(&latestTimeStr)
	if err != nil {
		return nil, fmt.Errorf("error scanning latest modified time: %w", err)
	}

	if !latestTimeStr.Valid {
		return nil, nil // It was NULL, so no recipes or no valid timestamps.
	}

	// The go-sqlite3 driver returns a string for MAX(), so we must parse it.
	// It can be in a format with a space separator.
	timeFormats := []string{
		"2006-01-02 15:04:05.999999999-07:00", // Space separator with timezone
		time.RFC3339Nano,                      // 'T' separator with timezone
		time.RFC3339,                          // 'T' separator, no nanos
	}

	var latestTime time.Time
	var parseErr error
	for _, format := range timeFormats {
		latestTime, parseErr = time.Parse(format, latestTimeStr.String)
		if parseErr == nil {
			return &latestTime, nil
		}
	}

	return nil, fmt.Errorf("error parsing latest modified time '%s' with any known format: %w", latestTimeStr.String, parseErr)
}

// loadRecipes reads every recipe plus its child rows into memory. The
// cache holds full records; the feed queries go to the database instead.
func (r *DBRecipeRepository) loadRecipes() (map[string]*model.Recipe, error) {
	rows, err := r.db.Query(`SELECT ` + recipeScalarColumns + ` FROM recipes`)
	if err != nil {
		return nil, fmt.Errorf("error querying recipes: %w", err)
	}
	defer rows.Close()

	recipeMap := make(map[string]*model.Recipe)
	var latestModTime *time.Time

	for rows.Next() {
		recipe, err := r.scanRecipe(rows)
		if err != nil {
			return nil, err
		}

		// Track the latest modification time
		if latestModTime == nil || recipe.ModifiedDate.After(*latestModTime) {
			t := recipe.ModifiedDate
			latestModTime = &t
		}

		recipeMap[string(recipe.ID)] = recipe
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recipes: %w", err)
	}

	for _, recipe := range recipeMap {
		if err := r.loadChildren(recipe); err != nil {
			return nil, err
		}
	}

	// Update our tracked modification time
	r.lastModifiedTime = latestModTime

	return recipeMap, nil
}

func (r *DBRecipeRepository) scanRecipe(rows *sql.Rows) (*model.Recipe, error) {
	var recipe model.Recipe
	var compressed []byte

	err := rows.Scan(
		&recipe.ID, &recipe.Owner, &recipe.Title, &compressed, &recipe.BodyHash,
		&recipe.SourceURL, &recipe.ImageURL, &recipe.Servings, &recipe.PrepMinutes,
		&recipe.CookMinutes, &recipe.Private, &recipe.ModifiedDate, &recipe.CreatedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning recipe: %w", err)
	}

	// Decompress the body
	if len(compressed) > 0 {
		body, err := r.compressor.Decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing body: %w", err)
		}
		recipe.Body = string(body)
	}

	recipe.Steps = []model.Step{}
	recipe.Ingredients = []model.Ingredient{}

	return &recipe, nil
}

func (r *DBRecipeRepository) loadChildren(recipe *model.Recipe) error {
	steps, err := r.db.Query(
		`SELECT position, body, seconds FROM recipe_steps WHERE recipe_id = ? ORDER BY position`,
		recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("error querying steps: %w", err)
	}
	defer steps.Close()

	for steps.Next() {
		var step model.Step
		if err := steps.Scan(&step.Position, &step.Body, &step.Seconds); err != nil {
			return fmt.Errorf("error scanning step: %w", err)
		}
		recipe.Steps = append(recipe.Steps, step)
	}
	if err := steps.Err(); err != nil {
		return fmt.Errorf("error iterating steps: %w", err)
	}

	ingredients, err := r.db.Query(
		`SELECT position, body FROM recipe_ingredients WHERE recipe_id = ? ORDER BY position`,
		recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("error querying ingredients: %w", err)
	}
	defer ingredients.Close()

	for ingredients.Next() {
		var ingredient model.Ingredient
		if err := ingredients.Scan(&ingredient.Position, &ingredient.Body); err != nil {
			return fmt.Errorf("error scanning ingredient: %w", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, ingredient)
	}
	return ingredients.Err()
}

func (r *DBRecipeRepository) GetRecipe(id model.RecipeID) (*model.Recipe, error) {
	recipe, ok := r.recipesCache.Get(string(id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return recipe, nil
}

func (r *DBRecipeRepository) OwnerOf(id model.RecipeID) (model.UserID, error) {
	if recipe, ok := r.recipesCache.Get(string(id)); ok {
		return recipe.Owner, nil
	}

	var owner model.UserID
	row := r.db.QueryRow(`SELECT user_id FROM recipes WHERE id = ?`, id)
	if err := row.Scan(&owner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return "", fmt.Errorf("error scanning owner: %w", err)
	}
	return owner, nil
}

func (r *DBRecipeRepository) NewRecipe() *model.Recipe {
	now := time.Now().UTC()

	return &model.Recipe{
		ID: model.RecipeID(uuid.New().String()),

		Steps:       []model.Step{},
		Ingredients: []model.Ingredient{},

		CreatedDate:  now,
		ModifiedDate: now,
	}
}

func (r *DBRecipeRepository) SaveRecipe(recipe *model.Recipe) error {
	compressed, err := r.compressor.Compress([]byte(recipe.Body))
	if err != nil {
		return fmt.Errorf("error compressing body: %w", err)
	}

	recipe.BodyHash = util.ContentHash(compressed)

	_, err = r.db.Exec(
		`INSERT INTO recipes (id, user_id, title, body, body_hash, source_url, image_url,
			servings, prep_minutes, cook_minutes, private, modified_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		recipe.ID, recipe.Owner, recipe.Title, compressed, recipe.BodyHash,
		recipe.SourceURL, recipe.ImageURL, recipe.Servings, recipe.PrepMinutes,
		recipe.CookMinutes, recipe.Private, recipe.ModifiedDate, recipe.CreatedDate,
	)
	if err != nil {
		return fmt.Errorf("error saving recipe: %w", err)
	}

	if err := r.replaceChildren(recipe); err != nil {
		return err
	}

	r.recipesCache.Set(string(recipe.ID), recipe)

	repoLogger.Debug().Str("recipe_id", string(recipe.ID)).Msg("Recipe saved")
	return nil
}

// UpdateRecipe writes the complete snapshot in one transaction: scalar
// UPDATE plus a wholesale replace of the step and ingredient rows.
func (r *DBRecipeRepository) UpdateRecipe(recipe *model.Recipe) error {
	compressed, err := r.compressor.Compress([]byte(recipe.Body))
	if err != nil {
		return fmt.Errorf("error compressing body: %w", err)
	}

	recipe.BodyHash = util.ContentHash(compressed)
	recipe.ModifiedDate = time.Now().UTC()

	tx, err := r.db.Get().Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		r.db.Rebind(`UPDATE recipes SET title = ?, body = ?, body_hash = ?, source_url = ?,
			image_url = ?, servings = ?, prep_minutes = ?, cook_minutes = ?, private = ?,
			modified_at = ? WHERE id = ?`),
		recipe.Title, compressed, recipe.BodyHash, recipe.SourceURL, recipe.ImageURL,
		recipe.Servings, recipe.PrepMinutes, recipe.CookMinutes, recipe.Private,
		recipe.ModifiedDate, recipe.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating recipe: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, recipe.ID)
	}

	if err := r.replaceChildrenTx(tx, recipe); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing update: %w", err)
	}

	r.recipesCache.Set(string(recipe.ID), recipe)

	repoLogger.Debug().Str("recipe_id", string(recipe.ID)).Msg("Recipe updated")
	return nil
}

func (r *DBRecipeRepository) replaceChildren(recipe *model.Recipe) error {
	tx, err := r.db.Get().Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.replaceChildrenTx(tx, recipe); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *DBRecipeRepository) replaceChildrenTx(tx *sql.Tx, recipe *model.Recipe) error {
	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM recipe_steps WHERE recipe_id = ?`), recipe.ID); err != nil {
		return fmt.Errorf("error clearing steps: %w", err)
	}
	for _, step := range recipe.Steps {
		_, err := tx.Exec(
			r.db.Rebind(`INSERT INTO recipe_steps (recipe_id, position, body, seconds) VALUES (?, ?, ?, ?)`),
			recipe.ID, step.Position, step.Body, step.Seconds,
		)
		if err != nil {
			return fmt.Errorf("error inserting step: %w", err)
		}
	}

	if _, err := tx.Exec(r.db.Rebind(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`), recipe.ID); err != nil {
		return fmt.Errorf("error clearing ingredients: %w", err)
	}
	for _, ingredient := range recipe.Ingredients {
		_, err := tx.Exec(
			r.db.Rebind(`INSERT INTO recipe_ingredients (recipe_id, position, body) VALUES (?, ?, ?)`),
			recipe.ID, ingredient.Position, ingredient.Body,
		)
		if err != nil {
			return fmt.Errorf("error inserting ingredient: %w", err)
		}
	}

	return nil
}

func (r *DBRecipeRepository) DeleteRecipe(id model.RecipeID, owner model.UserID) error {
	currentOwner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if currentOwner != owner {
		return fmt.Errorf("%w: %s", ErrNotOwner, id)
	}

	// Child rows cascade.
	if _, err := r.db.Exec(`DELETE FROM recipes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting recipe: %w", err)
	}

	r.recipesCache.Delete(string(id))

	repoLogger.Info().Str("recipe_id", string(id)).Msg("Recipe deleted")
	return nil
}

func (r *DBRecipeRepository) Feed(cursor string, limit int) ([]model.RecipeCard, string, error) {
	query := `SELECT ` + recipeScalarColumns + ` FROM recipes WHERE private = ?`
	args := []interface{}{false}

	if cursor != "" {
		before, beforeID, err := decodeCursor(cursor)
		if err != nil {
			return nil, "", err
		}
		query += ` AND (created_at < ? OR (created_at = ? AND id < ?))`
		args = append(args, before, before, beforeID)
	}

	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, "", fmt.Errorf("error querying feed: %w", err)
	}
	defer rows.Close()

	cards, err := r.scanCards(rows)
	if err != nil {
		return nil, "", err
	}

	var next string
	if len(cards) == limit {
		last := cards[len(cards)-1]
		next = encodeCursor(last.CreatedDate, string(last.ID))
	}

	return cards, next, nil
}

func (r *DBRecipeRepository) Search(query string, limit int) ([]model.RecipeCard, error) {
	rows, err := r.db.Query(
		`SELECT `+recipeScalarColumns+` FROM recipes
		WHERE private = ? AND title LIKE ?
		ORDER BY created_at DESC LIMIT ?`,
		false, "%"+query+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("error searching recipes: %w", err)
	}
	defer rows.Close()

	return r.scanCards(rows)
}

func (r *DBRecipeRepository) Recent(owner model.UserID) ([]model.RecipeCard, error) {
	rows, err := r.db.Query(
		`SELECT `+recipeScalarColumns+` FROM recipes
		WHERE user_id = ? ORDER BY modified_at DESC`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying recent recipes: %w", err)
	}
	defer rows.Close()

	return r.scanCards(rows)
}

func (r *DBRecipeRepository) scanCards(rows *sql.Rows) ([]model.RecipeCard, error) {
	cards := make([]model.RecipeCard, 0)
	for rows.Next() {
		recipe, err := r.scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, recipe.Card())
	}
	return cards, rows.Err()
}

// reloadLoop polls for external changes to the recipes table so the
// cache follows writes made by other processes (bulk import, operator
// fixes). Change detection compares body hashes, same as the share-page
// render cache keys.
func (r *DBRecipeRepository) reloadLoop() {
	sleepFunc := func() {
		time.Sleep(10 * time.Second)
	}

	for {
		// First, do a lightweight check to see if anything has changed
		latestTime, err := r.GetLatestModifiedTime()
		if err != nil {
			repoLogger.Error().Err(err).Msg("Error checking latest modification time")
			sleepFunc()
			continue
		}

		// If we have a cached time and nothing has changed, skip
		if r.lastModifiedTime != nil && latestTime != nil && !latestTime.After(*r.lastModifiedTime) {
			repoLogger.Debug().Msg("No recipes modified, skipping reload")
			sleepFunc()
			continue
		}

		repoLogger.Debug().Msg("Recipes may have changed, performing full reload")

		recipeMap, err := r.loadRecipes()
		if err != nil {
			repoLogger.Error().Err(err).Msg(config.ErrReloadingRecipes)
			sleepFunc()
			continue
		}

		for id, newRecipe := range recipeMap {
			if cached, ok := r.recipesCache.Get(id); ok {
				if newRecipe.BodyHash != cached.BodyHash {
					repoLogger.Info().
						Str("recipe_id", id).
						Str("title", newRecipe.Title).
						Msg("Recipe content changed, reloading")
					if r.reloadNotifier != nil {
						go r.reloadNotifier(newRecipe.ID)
					}
				}
			} else {
				repoLogger.Info().
					Str("recipe_id", id).
					Str("title", newRecipe.Title).
					Msg("New recipe detected")
			}
		}

		r.recipesCache.SetTo(recipeMap)

		sleepFunc()
	}
}

func (r *DBRecipeRepository) SetReloadNotifier(notifier func(model.RecipeID)) {
	r.reloadNotifier = notifier
}

func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.UTC().Format(time.RFC3339Nano) + "|" + id
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrBadCursor, err)
	}

	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", ErrBadCursor
	}

	createdAt, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: bad timestamp: %v", ErrBadCursor, err)
	}

	return createdAt, parts[1], nil
}
