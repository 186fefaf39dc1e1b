package config

const (
	// Auth errors
	ErrAuthHeaderRequired  = "Authorization header required"
	ErrInternalServerError = "Internal server error"

	// Recipe processing errors
	ErrInitializingRecipes = "Error initializing recipes"
	ErrReloadingRecipes    = "Error reloading recipes"
)
