package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/model"
)

var ErrInvalidToken = errors.New("invalid device token")

// DeviceTokenClaims carries the standard claims plus the subject user.
type DeviceTokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// DeviceTokenProvider implements AuthProvider with signed bearer tokens
// held by mobile clients. Tokens are HS256 JWTs minted either by the
// operator CLI or by the mint endpoint against an existing hosted
// session.
type DeviceTokenProvider struct {
	secret     []byte
	headerName string
	cookieName string
	validity   time.Duration
}

func NewDeviceTokenProvider(secret string, validity time.Duration) (*DeviceTokenProvider, error) {
	if secret == "" {
		return nil, errors.New("device token secret is empty")
	}
	if validity <= 0 {
		validity = 30 * 24 * time.Hour
	}

	return &DeviceTokenProvider{
		secret:     []byte(secret),
		headerName: "Authorization",
		cookieName: config.CookieDeviceToken,
		validity:   validity,
	}, nil
}

// Mint signs a new device token for userID.
func (p *DeviceTokenProvider) Mint(userID model.UserID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, DeviceTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.validity)),
		},
		UserID: string(userID),
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("error signing device token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token string and returns its subject.
func (p *DeviceTokenProvider) Verify(tokenString string) (model.UserID, error) {
	claims := &DeviceTokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" {
		return "", ErrInvalidToken
	}

	return model.UserID(claims.UserID), nil
}

// WithHeaderAuthorization returns middleware that attaches the token's
// user to the request context. Requests without a valid token proceed
// anonymously; enforcement happens per-route.
func (p *DeviceTokenProvider) WithHeaderAuthorization() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := p.extractToken(r)
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := p.Verify(tokenString)
			if err != nil {
				authLogger.Debug().Err(err).Msg("Rejected device token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUserID(r.Context(), userID)))
		})
	}
}

func (p *DeviceTokenProvider) extractToken(r *http.Request) string {
	// Try header first
	header := r.Header.Get(p.headerName)
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(after)
	}

	// If header auth failed, try cookie
	if cookie, err := r.Cookie(p.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// GetUserIDFromSession extracts the user ID from the request
func (p *DeviceTokenProvider) GetUserIDFromSession(r *http.Request) (model.UserID, error) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		return "", errors.New("no user ID in context")
	}
	return userID, nil
}

// EnforceUserAndGetID enforces the user and returns the user ID
func (p *DeviceTokenProvider) EnforceUserAndGetID(w http.ResponseWriter, r *http.Request) (model.UserID, error) {
	userID, err := p.GetUserIDFromSession(r)
	if err != nil {
		authLogger.Warn().Err(err).Str("path", r.URL.Path).Msg("Unauthorized access attempt")
		http.Error(w, config.ErrAuthHeaderRequired, http.StatusUnauthorized)
		return "", err
	}
	return userID, nil
}

// HandleWebhookUser is a no-op for this provider; account sync comes
// from the hosted provider's webhook.
func (p *DeviceTokenProvider) HandleWebhookUser(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
