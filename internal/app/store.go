package app

import (
	"sync"
	"time"
)

// Store is the single source of truth for chat sessions and the active one.
//
// The active session is tracked by id, not by index; the index is derived on
// demand. That keeps delete/select races from ever leaving a dangling
// pointer. The store is never empty: construction, restore, and delete all
// heal an empty session list into a single fresh placeholder session.
//
// Mutations are serialized by an internal mutex so completions arriving from
// agent goroutines cannot interleave with UI-driven operations.
type Store struct {
	mu        sync.Mutex
	sessions  []ChatSession
	currentID string

	// onChange receives a snapshot after every mutation. It is used for
	// best-effort persistence and must not be assumed to succeed.
	onChange func(State)
	now      func() time.Time
}

// State is the serializable snapshot of the store.
type State struct {
	Sessions     []ChatSession `json:"sessions"`
	CurrentIndex int           `json:"current_index"`
}

// NewStore returns a store holding exactly one fresh placeholder session.
func NewStore(onChange func(State)) *Store {
	s := &Store{onChange: onChange, now: time.Now}
	s.sessions = []ChatSession{newChatSession(s.now())}
	s.currentID = s.sessions[0].ID
	return s
}

// RestoreStore rebuilds a store from a persisted snapshot. Invalid snapshots
// (no sessions, out-of-range index) are healed rather than rejected.
func RestoreStore(st State, onChange func(State)) *Store {
	s := &Store{onChange: onChange, now: time.Now}
	if len(st.Sessions) == 0 {
		s.sessions = []ChatSession{newChatSession(s.now())}
		s.currentID = s.sessions[0].ID
		return s
	}
	s.sessions = make([]ChatSession, len(st.Sessions))
	copy(s.sessions, st.Sessions)
	idx := st.CurrentIndex
	if idx < 0 || idx >= len(s.sessions) {
		idx = 0
	}
	s.currentID = s.sessions[idx].ID
	return s
}

func (s *Store) notifyLocked() {
	if s.onChange == nil {
		return
	}
	s.onChange(s.snapshotLocked())
}

func (s *Store) snapshotLocked() State {
	sessions := make([]ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		sessions[i] = sess
		sessions[i].Messages = append([]ChatMessage(nil), sess.Messages...)
	}
	return State{Sessions: sessions, CurrentIndex: s.indexOfLocked(s.currentID)}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) indexOfLocked(id string) int {
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// Sessions returns a copy of the session list in insertion order.
func (s *Store) Sessions() []ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked().Sessions
}

// CurrentSession returns the active session. The never-empty invariant
// guarantees one always exists.
func (s *Store) CurrentSession() ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(s.currentID)
	sess := s.sessions[idx]
	sess.Messages = append([]ChatMessage(nil), sess.Messages...)
	return sess
}

// CurrentIndex returns the position of the active session.
func (s *Store) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOfLocked(s.currentID)
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// NewSession appends a fresh placeholder session and makes it active.
func (s *Store) NewSession() ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := newChatSession(s.now())
	s.sessions = append(s.sessions, sess)
	s.currentID = sess.ID
	s.notifyLocked()
	return sess
}

// SelectIndex makes the session at index active. Out-of-range input is a
// caller bug; it is clamped rather than panicking.
func (s *Store) SelectIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if index >= len(s.sessions) {
		index = len(s.sessions) - 1
	}
	if s.sessions[index].ID == s.currentID {
		return
	}
	s.currentID = s.sessions[index].ID
	s.notifyLocked()
}

// SelectID makes the session with the given id active. Unknown ids are
// ignored.
func (s *Store) SelectID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOfLocked(id) < 0 {
		return false
	}
	if id == s.currentID {
		return true
	}
	s.currentID = id
	s.notifyLocked()
	return true
}

// Rename overwrites the session title. A missing id is a no-op: the session
// may have been deleted while a rename dialog was open.
func (s *Store) Rename(id, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return
	}
	s.sessions[idx].Title = title
	s.notifyLocked()
}

// Delete removes the session with the given id.
//
// If the deleted session was active, the preceding session becomes active
// (the first one when none precedes). Deleting the last remaining session
// first creates a fresh placeholder so the store is never empty.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(id)
	if idx < 0 {
		return
	}
	if len(s.sessions) == 1 {
		s.sessions = []ChatSession{newChatSession(s.now())}
		s.currentID = s.sessions[0].ID
		s.notifyLocked()
		return
	}

	wasCurrent := s.sessions[idx].ID == s.currentID
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if wasCurrent {
		target := idx - 1
		if target < 0 {
			target = 0
		}
		s.currentID = s.sessions[target].ID
	}
	s.notifyLocked()
}

// AppendMessage appends a message with the given role to the session.
// The append is silently dropped when the session no longer exists, which
// covers the delete-while-response-in-flight race.
func (s *Store) AppendMessage(sessionID, role, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(sessionID)
	if idx < 0 {
		return false
	}
	s.sessions[idx].Messages = append(s.sessions[idx].Messages, ChatMessage{Role: role, Content: content})
	s.notifyLocked()
	return true
}

func (s *Store) AddUserMessage(sessionID, content string) bool {
	return s.AppendMessage(sessionID, RoleUser, content)
}

func (s *Store) AddAssistantMessage(sessionID, content string) bool {
	return s.AppendMessage(sessionID, RoleAssistant, content)
}

func (s *Store) AddErrorMessage(sessionID, content string) bool {
	return s.AppendMessage(sessionID, RoleError, content)
}

// Reset drops all sessions and starts over with a single fresh one. Used on
// logout so the next user does not inherit history.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = []ChatSession{newChatSession(s.now())}
	s.currentID = s.sessions[0].ID
	s.notifyLocked()
}
