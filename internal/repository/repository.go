// Package repository realizes the persistence gateway for the recipe
// platform: recipes, comments, notifications and sponsored slots over
// the relational store.
package repository

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/model"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotOwner is returned when a mutation is attempted by a user
	// who does not own the record.
	ErrNotOwner = errors.New("not the record owner")

	// ErrBadCursor is returned for a feed cursor the caller supplied
	// that does not decode.
	ErrBadCursor = errors.New("malformed feed cursor")
)

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}

type RecipeRepository interface {
	Init()

	GetRecipe(id model.RecipeID) (*model.Recipe, error)
	OwnerOf(id model.RecipeID) (model.UserID, error)

	NewRecipe() *model.Recipe
	SaveRecipe(recipe *model.Recipe) error

	// UpdateRecipe persists the full snapshot: every scalar field plus
	// a wholesale replace of the step and ingredient rows. Repeating
	// the call with an identical snapshot leaves the stored state
	// unchanged.
	UpdateRecipe(recipe *model.Recipe) error

	DeleteRecipe(id model.RecipeID, owner model.UserID) error

	// Feed returns public recipes newest-first. The cursor is opaque;
	// an empty cursor starts from the top. The returned cursor is empty
	// once the feed is exhausted.
	Feed(cursor string, limit int) ([]model.RecipeCard, string, error)

	Search(query string, limit int) ([]model.RecipeCard, error)
	Recent(owner model.UserID) ([]model.RecipeCard, error)

	// SetReloadNotifier sets a function that will be called when a
	// recipe changes underneath the cache.
	SetReloadNotifier(notifier func(model.RecipeID))
}
