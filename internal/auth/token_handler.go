package auth

import (
	"encoding/json"
	"net/http"

	"github.com/scsmith60/messhall/internal/config"
)

// DeviceTokenHandler mints device tokens for already-authenticated
// users, so a mobile client can trade its hosted session for a
// long-lived bearer token.
type DeviceTokenHandler struct {
	sessions AuthProvider
	tokens   *DeviceTokenProvider
}

func NewDeviceTokenHandler(sessions AuthProvider, tokens *DeviceTokenProvider) *DeviceTokenHandler {
	return &DeviceTokenHandler{sessions: sessions, tokens: tokens}
}

func (h *DeviceTokenHandler) HandleMint(w http.ResponseWriter, r *http.Request) {
	userID, err := h.sessions.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	token, err := h.tokens.Mint(userID)
	if err != nil {
		authLogger.Error().Err(err).Str("user", string(userID)).Msg("Failed to mint device token")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeJSON)
	if err := json.NewEncoder(w).Encode(map[string]string{"token": token}); err != nil {
		authLogger.Error().Err(err).Msg("Failed to encode device token response")
	}
}
