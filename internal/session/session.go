package session

import (
	"sync"
)

// Session holds the per-user selection set: the photo ids currently marked
// for bulk export. It lives only in process memory and is never persisted.
type Session struct {
	ID string

	mu       sync.Mutex
	selected map[string]struct{}
}

func newSession(id string) *Session {
	return &Session{
		ID:       id,
		selected: make(map[string]struct{}),
	}
}

// Toggle flips membership for one photo id and reports the new state.
func (s *Session) Toggle(photoID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[photoID]; ok {
		delete(s.selected, photoID)
		return false
	}
	s.selected[photoID] = struct{}{}
	return true
}

// ToggleAll implements the "select all" checkbox over the visible catalog:
// when every visible id is already selected the selection is cleared,
// otherwise it becomes exactly the visible ids.
func (s *Session) ToggleAll(visibleIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	allSelected := len(visibleIDs) > 0
	for _, id := range visibleIDs {
		if _, ok := s.selected[id]; !ok {
			allSelected = false
			break
		}
	}

	if allSelected {
		s.selected = make(map[string]struct{})
		return false
	}

	s.selected = make(map[string]struct{}, len(visibleIDs))
	for _, id := range visibleIDs {
		s.selected[id] = struct{}{}
	}
	return true
}

func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// Selected returns a snapshot copy safe to use outside the lock.
func (s *Session) Selected() map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]struct{}, len(s.selected))
	for id := range s.selected {
		out[id] = struct{}{}
	}
	return out
}

func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.selected)
}

// Store keeps sessions by id for the lifetime of the process.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, creating it on first use.
func (st *Store) Get(id string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[id]; ok {
		return s
	}
	s = newSession(id)
	st.sessions[id] = s
	return s
}
