// Package editor manages server-side edit sessions: each open session
// owns a hydrated recipe record and an autosave coordinator that
// persists it in debounced full snapshots.
package editor

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scsmith60/messhall/internal/autosave"
	"github.com/scsmith60/messhall/internal/model"
	"github.com/scsmith60/messhall/internal/repository"
	"github.com/scsmith60/messhall/internal/sse"
)

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

var ErrSessionNotFound = errors.New("edit session not found")

// Manager tracks live edit sessions keyed by session id. A recipe can
// have several sessions open at once (two devices of the same owner);
// each persists full snapshots, so the last writer wins per field set.
type Manager struct {
	recipes repository.RecipeRepository
	clients *sse.SSEClients

	debounce     time.Duration
	savedDisplay time.Duration
	ttl          time.Duration

	sessions syncedSessions
}

type ManagerConfig struct {
	Recipes      repository.RecipeRepository
	Clients      *sse.SSEClients
	Debounce     time.Duration
	SavedDisplay time.Duration
	SessionTTL   time.Duration
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}

	return &Manager{
		recipes:      cfg.Recipes,
		clients:      cfg.Clients,
		debounce:     cfg.Debounce,
		savedDisplay: cfg.SavedDisplay,
		ttl:          cfg.SessionTTL,
		sessions:     newSyncedSessions(),
	}
}

// Open hydrates the recipe, checks ownership and builds the session's
// coordinator. Non-owners never get a session.
func (m *Manager) Open(recipeID model.RecipeID, userID model.UserID) (*Session, error) {
	owner, err := m.recipes.OwnerOf(recipeID)
	if err != nil {
		return nil, err
	}
	if owner != userID {
		return nil, repository.ErrNotOwner
	}

	recipe, err := m.recipes.GetRecipe(recipeID)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:       uuid.NewString(),
		RecipeID: recipeID,
		UserID:   userID,

		record:     copyRecipe(recipe),
		lastActive: time.Now(),
	}

	session.coordinator = autosave.New(autosave.Config[model.Recipe]{
		Delay:        m.debounce,
		SavedDisplay: m.savedDisplay,
		Snapshot:     session.snapshot,
		Validate:     session.validate,
		Write:        m.writeSnapshot,
		OnStatus: func(status model.SaveStatus) {
			m.broadcastStatus(recipeID, status)
		},
	})

	m.sessions.add(session)
	editorLogger.Debug().
		Str("session", session.ID).
		Str("recipe", string(recipeID)).
		Msg("Edit session opened")
	return session, nil
}

// Apply mutates the session's record and arms the autosave timer. The
// patch only touches fields it carries; list fields replace wholesale.
func (m *Manager) Apply(sessionID string, userID model.UserID, patch Patch) (model.SaveStatus, error) {
	session, err := m.get(sessionID, userID)
	if err != nil {
		return model.SaveStatus{}, err
	}

	session.apply(patch)
	session.coordinator.NotifyChanged()
	return session.coordinator.Status(), nil
}

func (m *Manager) Status(sessionID string, userID model.UserID) (model.SaveStatus, error) {
	session, err := m.get(sessionID, userID)
	if err != nil {
		return model.SaveStatus{}, err
	}
	return session.coordinator.Status(), nil
}

// Close tears the session down. A pending save that has not fired yet
// is dropped; a write already in flight completes on its own.
func (m *Manager) Close(sessionID string, userID model.UserID) error {
	session, err := m.get(sessionID, userID)
	if err != nil {
		return err
	}

	m.sessions.delete(sessionID)
	session.coordinator.Close()
	editorLogger.Debug().Str("session", sessionID).Msg("Edit session closed")
	return nil
}

// CloseAll tears down every live session, for shutdown.
func (m *Manager) CloseAll() {
	for _, session := range m.sessions.drain() {
		session.coordinator.Close()
	}
}

// RunJanitor closes sessions idle past the TTL until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, session := range m.sessions.expired(m.ttl) {
				editorLogger.Info().
					Str("session", session.ID).
					Str("recipe", string(session.RecipeID)).
					Msg("Closing idle edit session")
				m.sessions.delete(session.ID)
				session.coordinator.Close()
			}
		}
	}
}

func (m *Manager) get(sessionID string, userID model.UserID) (*Session, error) {
	session, ok := m.sessions.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.UserID != userID {
		return nil, repository.ErrNotOwner
	}
	session.touch()
	return session, nil
}

func (m *Manager) writeSnapshot(_ context.Context, snap model.Recipe) error {
	snap.ModifiedDate = time.Now().UTC()
	return m.recipes.UpdateRecipe(&snap)
}

func (m *Manager) broadcastStatus(recipeID model.RecipeID, status model.SaveStatus) {
	if m.clients == nil {
		return
	}
	m.clients.Broadcast(recipeID, sse.SaveStatusEvent(status))
}
