package editor

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/scsmith60/messhall/internal/auth"
	"github.com/scsmith60/messhall/internal/config"
	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/repository"
)

// Handler exposes the edit session lifecycle over HTTP.
type Handler struct {
	manager *Manager
	auth    auth.AuthProvider
}

func NewHandler(manager *Manager, authProvider auth.AuthProvider) *Handler {
	return &Handler{manager: manager, auth: authProvider}
}

type openResponse struct {
	SessionID string       `json:"session_id"`
	Recipe    model.Recipe `json:"recipe"`
}

// HandleOpen opens an edit session for the recipe in the path.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	recipeID := model.RecipeID(r.PathValue("id"))
	session, err := h.manager.Open(recipeID, userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, openResponse{
		SessionID: session.ID,
		Recipe:    session.Record(),
	})
}

// HandleApply applies a patch to the session in the path.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	var patch Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	status, err := h.manager.Apply(r.PathValue("sid"), userID, patch)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, status)
}

func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	status, err := h.manager.Status(r.PathValue("sid"), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}

func (h *Handler) HandleClose(w http.ResponseWriter, r *http.Request) {
	userID, err := h.auth.EnforceUserAndGetID(w, r)
	if err != nil {
		return
	}

	if err := h.manager.Close(r.PathValue("sid"), userID); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, repository.ErrNotOwner):
		http.Error(w, "Forbidden", http.StatusForbidden)
	default:
		editorLogger.Error().Err(err).Msg("Edit session request failed")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		editorLogger.Error().Err(err).Msg("Failed to encode response")
	}
}
