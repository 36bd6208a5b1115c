// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the application state behind a closed set of
// transition operations.
package store

import (
	"sync"

	"chatdeck/internal/model"
)

// =============================================================================
// STATE
// =============================================================================

// State is the aggregate application state. Sessions and templates are
// ordered most-recent-first; new entries are prepended.
type State struct {
	// Models is the available model catalog, loaded at startup.
	Models []model.Info

	// CurrentModel is the model ID used for new generations.
	CurrentModel string

	// Parameters are the current sampling knobs.
	Parameters model.Parameters

	// CurrentSession is the ID of the selected session, or "" when none.
	CurrentSession string

	// Sessions, most recently created first.
	Sessions []model.Session

	// Templates, most recently added first.
	Templates []model.PromptTemplate

	// Theme is the appearance preference.
	Theme model.Theme

	// Loading and LoadingMessage describe a transient busy state.
	Loading        bool
	LoadingMessage string

	// Err is the transient user-visible error, or "" when none.
	// Loading and Err are mutually exclusive by construction.
	Err string
}

// initialState returns the baseline state used before any restore.
func initialState() State {
	return State{
		CurrentModel: model.DefaultModel,
		Parameters:   model.DefaultParameters(),
		Sessions:     []model.Session{},
		Templates:    []model.PromptTemplate{},
		Theme:        model.ThemeSystem,
	}
}

// clone returns a deep copy of the state. Transition operations work on a
// copy so observers never see a partially-applied update.
func (s State) clone() State {
	out := s
	out.Models = append([]model.Info(nil), s.Models...)
	out.Parameters = s.Parameters.Clone()
	out.Sessions = make([]model.Session, len(s.Sessions))
	for i, sess := range s.Sessions {
		out.Sessions[i] = sess.Clone()
	}
	out.Templates = append([]model.PromptTemplate(nil), s.Templates...)
	return out
}

// Session returns the session with the given ID and true, or a zero
// session and false.
func (s State) Session(id string) (model.Session, bool) {
	for _, sess := range s.Sessions {
		if sess.ID == id {
			return sess, true
		}
	}
	return model.Session{}, false
}

// Current returns the current session and true, or a zero session and
// false when no session is current.
func (s State) Current() (model.Session, bool) {
	if s.CurrentSession == "" {
		return model.Session{}, false
	}
	return s.Session(s.CurrentSession)
}

// =============================================================================
// STORE
// =============================================================================

// Observer receives a state snapshot after every transition.
type Observer func(State)

// Store is the single owner of mutable application state. All mutation
// goes through its transition operations; every operation is total,
// synchronous, and atomic from an observer's perspective.
//
// The Store is passed explicitly to collaborators; there is no package
// level instance.
type Store struct {
	mu    sync.Mutex
	state State

	// deliverMu is held across commit and delivery so observers see
	// snapshots in commit order. Observers must not invoke transitions.
	deliverMu sync.Mutex

	obsMu     sync.Mutex
	observers map[int]Observer
	nextObsID int
}

// New creates a store holding the baseline state.
func New() *Store {
	return &Store{
		state:     initialState(),
		observers: make(map[int]Observer),
	}
}

// Snapshot returns a deep copy of the current state. Callers treat the
// snapshot as read-only for the duration of their synchronous work.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Subscribe registers an observer and returns an unsubscribe function.
// Observers are invoked synchronously, outside the state lock, after each
// transition commits, and always in commit order. An observer must not
// invoke transitions; reading via Snapshot is fine.
func (st *Store) Subscribe(fn Observer) func() {
	st.obsMu.Lock()
	defer st.obsMu.Unlock()
	id := st.nextObsID
	st.nextObsID++
	st.observers[id] = fn
	return func() {
		st.obsMu.Lock()
		defer st.obsMu.Unlock()
		delete(st.observers, id)
	}
}

// apply runs a transition on a copy of the state, commits the result, and
// notifies observers with a fresh snapshot. deliverMu spans both steps so
// concurrent transitions cannot deliver snapshots out of commit order.
func (st *Store) apply(fn func(State) State) State {
	st.deliverMu.Lock()
	defer st.deliverMu.Unlock()

	st.mu.Lock()
	next := fn(st.state.clone())
	st.state = next
	snapshot := next.clone()
	st.mu.Unlock()

	st.notify(snapshot)
	return snapshot
}

// notify calls observers outside the state lock.
func (st *Store) notify(snapshot State) {
	st.obsMu.Lock()
	observers := make([]Observer, 0, len(st.observers))
	for _, fn := range st.observers {
		observers = append(observers, fn)
	}
	st.obsMu.Unlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

// =============================================================================
// MODEL / PARAMETER / THEME TRANSITIONS
// =============================================================================

// SetModels replaces the available model catalog.
func (st *Store) SetModels(models []model.Info) {
	st.apply(func(s State) State {
		s.Models = append([]model.Info(nil), models...)
		return s
	})
}

// SetCurrentModel replaces the current model ID unconditionally. Validation
// against the known catalog is a collaborator's responsibility.
func (st *Store) SetCurrentModel(modelID string) {
	st.apply(func(s State) State {
		s.CurrentModel = modelID
		return s
	})
}

// UpdateParameters merges the patch into the current parameters. Fields not
// set in the patch are untouched; set fields are clamped to their ranges.
func (st *Store) UpdateParameters(patch model.ParameterPatch) {
	st.apply(func(s State) State {
		s.Parameters = patch.Apply(s.Parameters)
		return s
	})
}

// SetTheme replaces the theme preference.
func (st *Store) SetTheme(theme model.Theme) {
	st.apply(func(s State) State {
		s.Theme = theme
		return s
	})
}

// =============================================================================
// SESSION TRANSITIONS
// =============================================================================

// CreateSession builds a new session snapshotting the current model and
// parameters, prepends it to the session list, makes it current, and
// returns it.
func (st *Store) CreateSession() model.Session {
	var created model.Session
	st.apply(func(s State) State {
		created = model.NewSession(s.CurrentModel, s.Parameters)
		s.Sessions = append([]model.Session{created}, s.Sessions...)
		s.CurrentSession = created.ID
		return s
	})
	return created
}

// UpdateSession applies the patch to the session matching id and refreshes
// its updated timestamp. No-op if the id is not found.
func (st *Store) UpdateSession(id string, patch model.SessionPatch) {
	st.apply(func(s State) State {
		for i, sess := range s.Sessions {
			if sess.ID == id {
				s.Sessions[i] = patch.Apply(sess)
				break
			}
		}
		return s
	})
}

// DeleteSession removes the session matching id. If it was current, the
// new first session becomes current, or none when the list is empty.
func (st *Store) DeleteSession(id string) {
	st.apply(func(s State) State {
		kept := s.Sessions[:0]
		for _, sess := range s.Sessions {
			if sess.ID != id {
				kept = append(kept, sess)
			}
		}
		s.Sessions = kept
		if s.CurrentSession == id {
			if len(s.Sessions) > 0 {
				s.CurrentSession = s.Sessions[0].ID
			} else {
				s.CurrentSession = ""
			}
		}
		return s
	})
}

// SetCurrentSession sets the current session pointer without existence
// validation. Pass "" to clear the selection.
func (st *Store) SetCurrentSession(id string) {
	st.apply(func(s State) State {
		s.CurrentSession = id
		return s
	})
}

// =============================================================================
// TEMPLATE TRANSITIONS
// =============================================================================

// AddTemplate assigns a fresh ID and timestamps to the draft, prepends the
// template to the list, and returns it.
func (st *Store) AddTemplate(draft model.TemplateDraft) model.PromptTemplate {
	var created model.PromptTemplate
	st.apply(func(s State) State {
		created = model.NewTemplate(draft)
		s.Templates = append([]model.PromptTemplate{created}, s.Templates...)
		return s
	})
	return created
}

// SetTemplates replaces the template list wholesale. Used when seeding from
// the catalog; interactive changes go through AddTemplate and DeleteTemplate.
func (st *Store) SetTemplates(templates []model.PromptTemplate) {
	st.apply(func(s State) State {
		s.Templates = append([]model.PromptTemplate(nil), templates...)
		return s
	})
}

// DeleteTemplate removes the template matching id. No-op if absent.
func (st *Store) DeleteTemplate(id string) {
	st.apply(func(s State) State {
		kept := s.Templates[:0]
		for _, tmpl := range s.Templates {
			if tmpl.ID != id {
				kept = append(kept, tmpl)
			}
		}
		s.Templates = kept
		return s
	})
}

// =============================================================================
// LOADING / ERROR TRANSITIONS
// =============================================================================

// SetLoading sets the loading flag and status message. Entering or leaving
// the loading state clears any current error.
func (st *Store) SetLoading(loading bool, message string) {
	st.apply(func(s State) State {
		s.Loading = loading
		s.LoadingMessage = message
		s.Err = ""
		return s
	})
}

// SetError sets the user-visible error. A non-empty error clears the
// loading flag.
func (st *Store) SetError(message string) {
	st.apply(func(s State) State {
		s.Err = message
		if message != "" {
			s.Loading = false
			s.LoadingMessage = ""
		}
		return s
	})
}

// ClearError dismisses the current error.
func (st *Store) ClearError() {
	st.SetError("")
}

// =============================================================================
// RESTORE
// =============================================================================

// Recovered is the subset of state the persistence bridge can overlay onto
// the baseline at startup. Nil fields are skipped.
type Recovered struct {
	CurrentModel *string
	Parameters   *model.Parameters
	Sessions     *[]model.Session
	Templates    *[]model.PromptTemplate
	Theme        *model.Theme
}

// LoadInitial overlays recovered state onto the current state. Intended to
// run once at startup before any user interaction.
func (st *Store) LoadInitial(rec Recovered) {
	st.apply(func(s State) State {
		if rec.CurrentModel != nil {
			s.CurrentModel = *rec.CurrentModel
		}
		if rec.Parameters != nil {
			s.Parameters = rec.Parameters.Clamp()
		}
		if rec.Sessions != nil {
			s.Sessions = append([]model.Session(nil), (*rec.Sessions)...)
			if _, ok := s.Session(s.CurrentSession); !ok {
				s.CurrentSession = ""
			}
		}
		if rec.Templates != nil {
			s.Templates = append([]model.PromptTemplate(nil), (*rec.Templates)...)
		}
		if rec.Theme != nil && rec.Theme.Valid() {
			s.Theme = *rec.Theme
		}
		return s
	})
}
