// Package session holds the process-wide authentication state: a snapshot
// store with a fixed set of mutators, JSON persistence of the durable subset,
// and a manager running the login/register/logout flows against the API.
package session

import (
	"encoding/json"
	"sync"
)

// User is the authenticated principal.
type User struct {
	ID    string `json:"id,omitempty"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// Snapshot is the observable session state. IsAuthenticated is true iff
// User is non-nil; IsLoading and Error are transient and never persisted.
type Snapshot struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// persistedState is the durable subset of the snapshot.
type persistedState struct {
	User            *User `json:"user"`
	IsAuthenticated bool  `json:"isAuthenticated"`
}

// Store is the auth state container. All reads go through Snapshot, all
// writes through the five mutators; every mutation is a synchronous
// in-memory transition followed by a best-effort persistence save.
type Store struct {
	mu        sync.Mutex
	state     Snapshot
	storage   Storage
	listeners map[int64]func(Snapshot)
	nextID    int64
}

// NewStore loads persisted state (if present) and returns the store.
// The authenticated flag is re-derived from the presence of a user, so a
// corrupted persisted file can never yield an authenticated-without-user
// session.
func NewStore(storage Storage) *Store {
	s := &Store{
		storage:   storage,
		listeners: make(map[int64]func(Snapshot)),
	}

	if data, ok, err := storage.Get(StateKey); err == nil && ok {
		var persisted persistedState
		if json.Unmarshal(data, &persisted) == nil {
			s.state.User = persisted.User
			s.state.IsAuthenticated = persisted.User != nil
		}
	}

	return s
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := s.state
	if s.state.User != nil {
		user := *s.state.User
		snap.User = &user
	}
	return snap
}

// SetUser stores the authenticated user. It always sets the authenticated
// flag and clears any prior error.
func (s *Store) SetUser(user User) {
	s.mu.Lock()
	s.state.User = &user
	s.state.IsAuthenticated = true
	s.state.Error = ""
	s.persistLocked()
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// ClearUser removes the user and always clears the authenticated flag.
func (s *Store) ClearUser() {
	s.mu.Lock()
	s.state.User = nil
	s.state.IsAuthenticated = false
	s.persistLocked()
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// SetLoading flags an auth operation in progress.
func (s *Store) SetLoading(isLoading bool) {
	s.mu.Lock()
	s.state.IsLoading = isLoading
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// SetError records an operation failure message and ends the loading state.
// An empty string clears the error.
func (s *Store) SetError(message string) {
	s.mu.Lock()
	s.state.Error = message
	s.state.IsLoading = false
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// Reset restores all fields to their initial values, including persisted
// state. Used on logout and in test teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	s.state = Snapshot{}
	s.persistLocked()
	notify := s.notifierLocked()
	s.mu.Unlock()
	notify()
}

// Subscribe registers a listener invoked after every state transition.
// The returned function unsubscribes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// persistLocked saves the durable subset. Persistence is best effort: a
// storage failure must not block the in-memory transition.
func (s *Store) persistLocked() {
	data, err := json.Marshal(persistedState{
		User:            s.state.User,
		IsAuthenticated: s.state.IsAuthenticated,
	})
	if err != nil {
		return
	}
	_ = s.storage.Set(StateKey, data)
}

func (s *Store) notifierLocked() func() {
	snap := s.snapshotLocked()
	callbacks := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		callbacks = append(callbacks, fn)
	}
	return func() {
		for _, fn := range callbacks {
			fn(snap)
		}
	}
}
