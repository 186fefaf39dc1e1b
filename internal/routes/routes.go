// Package routes defines HTTP route patterns for the application.
package routes

const (
	// Static and assets
	RobotsPath     = "/robots.txt"
	SyntaxThemeGet = "GET /syntax-theme/{theme}"

	// Public pages
	SharePage = "GET /r/{id}"

	// SSE
	SSEPath = "GET /sse"

	// Recipes
	APIRecipeCreate = "POST /api/recipes"
	APIRecipeGet    = "GET /api/recipes/{id}"
	APIRecipeDelete = "DELETE /api/recipes/{id}"
	APIRecipeRecent = "GET /api/recipes/recent"

	// Edit sessions
	APIEditOpen   = "POST /api/recipes/{id}/edit"
	APIEditApply  = "PATCH /api/edit/{sid}"
	APIEditStatus = "GET /api/edit/{sid}/status"
	APIEditClose  = "DELETE /api/edit/{sid}"

	// Feed and search
	APIFeed   = "GET /api/feed"
	APISearch = "GET /api/search"

	// Comments and notifications
	APICommentList       = "GET /api/recipes/{id}/comments"
	APICommentAdd        = "POST /api/recipes/{id}/comments"
	APICommentDelete     = "DELETE /api/comments/{id}"
	APINotifications     = "GET /api/notifications"
	APINotificationsRead = "POST /api/notifications/read"

	// Import, export, media
	APIImport = "POST /api/import"
	APIExport = "GET /api/export"
	APIImages = "POST /api/images"

	// Auth
	WebhookUser     = "POST /webhook/user"
	AuthDeviceToken = "POST /api/auth/device-token"
)
