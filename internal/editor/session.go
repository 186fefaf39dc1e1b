package editor

import (
	"sync"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/scsmith60/messhall/internal/autosave"
	"github.com/scsmith60/messhall/internal/model"
)

// Session is one live editing surface over a single recipe. The record
// is the working copy; nothing touches the store until the coordinator
// fires.
type Session struct {
	ID       string
	RecipeID model.RecipeID
	UserID   model.UserID

	coordinator *autosave.Coordinator[model.Recipe]

	mu         sync.Mutex
	record     model.Recipe
	lastActive time.Time
}

// Patch carries partial edits. Nil means untouched; list fields always
// replace the whole list when present.
type Patch struct {
	Title       *string             `json:"title,omitempty"`
	Body        *string             `json:"body,omitempty"`
	SourceURL   *string             `json:"source_url,omitempty"`
	ImageURL    *string             `json:"image_url,omitempty"`
	Servings    *int                `json:"servings,omitempty"`
	PrepMinutes *int                `json:"prep_minutes,omitempty"`
	CookMinutes *int                `json:"cook_minutes,omitempty"`
	Private     *bool               `json:"private,omitempty"`
	Steps       *[]model.Step       `json:"steps,omitempty"`
	Ingredients *[]model.Ingredient `json:"ingredients,omitempty"`
}

func (s *Session) apply(patch Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if patch.Title != nil {
		s.record.Title = *patch.Title
	}
	if patch.Body != nil {
		s.record.Body = *patch.Body
	}
	if patch.SourceURL != nil {
		s.record.SourceURL = *patch.SourceURL
	}
	if patch.ImageURL != nil {
		s.record.ImageURL = *patch.ImageURL
	}
	if patch.Servings != nil {
		s.record.Servings = *patch.Servings
	}
	if patch.PrepMinutes != nil {
		s.record.PrepMinutes = *patch.PrepMinutes
	}
	if patch.CookMinutes != nil {
		s.record.CookMinutes = *patch.CookMinutes
	}
	if patch.Private != nil {
		s.record.Private = *patch.Private
	}
	if patch.Steps != nil {
		s.record.Steps = renumberSteps(*patch.Steps)
	}
	if patch.Ingredients != nil {
		s.record.Ingredients = renumberIngredients(*patch.Ingredients)
	}
}

// Record returns a copy of the working record.
func (s *Session) Record() model.Recipe {
	return s.snapshot()
}

func (s *Session) snapshot() model.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

func (s *Session) validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return validateRecord(&s.record)
}

func (s *Session) touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActive = time.Now()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

func validateRecord(r *model.Recipe) error {
	return validation.Errors{
		"title":        validation.Validate(r.Title, validation.Required, validation.Length(1, 200)),
		"servings":     validation.Validate(r.Servings, validation.Min(0), validation.Max(1000)),
		"prep_minutes": validation.Validate(r.PrepMinutes, validation.Min(0), validation.Max(10000)),
		"cook_minutes": validation.Validate(r.CookMinutes, validation.Min(0), validation.Max(10000)),
	}.Filter()
}

// renumberSteps rewrites positions to the list order so clients cannot
// persist gaps or duplicates.
func renumberSteps(steps []model.Step) []model.Step {
	out := make([]model.Step, len(steps))
	for i, step := range steps {
		step.Position = i + 1
		out[i] = step
	}
	return out
}

func renumberIngredients(ingredients []model.Ingredient) []model.Ingredient {
	out := make([]model.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		ing.Position = i + 1
		out[i] = ing
	}
	return out
}

func copyRecipe(r *model.Recipe) model.Recipe {
	return r.Clone()
}

// syncedSessions is the manager's session table.
type syncedSessions struct {
	mu       *sync.RWMutex
	sessions map[string]*Session
}

func newSyncedSessions() syncedSessions {
	return syncedSessions{
		mu:       &sync.RWMutex{},
		sessions: make(map[string]*Session),
	}
}

func (s *syncedSessions) add(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

func (s *syncedSessions) get(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	return session, ok
}

func (s *syncedSessions) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *syncedSessions) expired(ttl time.Duration) []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := time.Now().Add(-ttl)
	var out []*Session
	for _, session := range s.sessions {
		if session.idleSince().Before(cutoff) {
			out = append(out, session)
		}
	}
	return out
}

func (s *syncedSessions) drain() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Session, 0, len(s.sessions))
	for id, session := range s.sessions {
		out = append(out, session)
		delete(s.sessions, id)
	}
	return out
}
