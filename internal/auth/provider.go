// Package auth provides the authentication providers the API accepts:
// hosted Clerk sessions and signed device tokens for mobile clients.
package auth

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/model"
)

var authLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	authLogger = l
}

type AuthProvider interface {
	WithHeaderAuthorization() func(http.Handler) http.Handler

	GetUserIDFromSession(r *http.Request) (model.UserID, error)

	// EnforceUserAndGetID writes a 401 to w when no user is attached
	// to the request.
	EnforceUserAndGetID(w http.ResponseWriter, r *http.Request) (model.UserID, error)

	HandleWebhookUser(w http.ResponseWriter, r *http.Request)
}
