// Package model defines core data structures and types for the recipe platform.
package model

import (
	"time"
)

type RecipeID string

type UserID string

// Step is one ordered instruction in a recipe. Seconds is an optional
// cook timer for the step; zero means no timer.
type Step struct {
	Position int    `json:"position"`
	Body     string `json:"body"`
	Seconds  int    `json:"seconds,omitempty"`
}

// Ingredient is one ordered ingredient line. Quantities stay inside Body
// as free text ("2 cups flour"), matching what cooks actually type.
type Ingredient struct {
	Position int    `json:"position"`
	Body     string `json:"body"`
}

type Recipe struct {
	ID    RecipeID `json:"id"`
	Owner UserID   `json:"owner_id"`

	Title     string `json:"title"`
	Body      string `json:"body,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`

	Servings    int  `json:"servings"`
	PrepMinutes int  `json:"prep_minutes"`
	CookMinutes int  `json:"cook_minutes"`
	Private     bool `json:"private"`

	Steps       []Step       `json:"steps"`
	Ingredients []Ingredient `json:"ingredients"`

	// Used for cache busting and reload change detection.
	// Hash of the compressed body blob, not the rendered output.
	BodyHash string `json:"-"`

	CreatedDate  time.Time `json:"created_at"`
	ModifiedDate time.Time `json:"modified_at"`
}

func (r *Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// Clone returns a deep copy safe to mutate independently.
func (r *Recipe) Clone() Recipe {
	out := *r
	out.Steps = append([]Step(nil), r.Steps...)
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	return out
}

// Card returns the feed projection of a recipe: everything a list cell
// needs, without the body or the child lists.
func (r *Recipe) Card() RecipeCard {
	return RecipeCard{
		ID:           r.ID,
		Owner:        r.Owner,
		Title:        r.Title,
		ImageURL:     r.ImageURL,
		Servings:     r.Servings,
		TotalMinutes: r.TotalMinutes(),
		CreatedDate:  r.CreatedDate,
	}
}

type RecipeCard struct {
	ID           RecipeID  `json:"id"`
	Owner        UserID    `json:"owner_id"`
	Title        string    `json:"title"`
	ImageURL     string    `json:"image_url,omitempty"`
	Servings     int       `json:"servings"`
	TotalMinutes int       `json:"total_minutes"`
	CreatedDate  time.Time `json:"created_at"`
}

// FeedItem is one slot in the home feed: either a recipe card or a
// sponsored slot, never both.
type FeedItem struct {
	Kind      string         `json:"kind"`
	Recipe    *RecipeCard    `json:"recipe,omitempty"`
	Sponsored *SponsoredSlot `json:"sponsored,omitempty"`
}

const (
	FeedItemRecipe    = "recipe"
	FeedItemSponsored = "sponsored"
)

type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor string     `json:"next_cursor,omitempty"`
}
