// Package session provides the keyed conversation history store.
package session

import (
	"sync"
	"time"

	"github.com/hyperjump/kotae/internal/models"
)

// Store holds one conversation per session ID for the life of the process.
// Each session carries its own lock, so concurrent requests to the same
// session serialize while distinct sessions proceed fully in parallel.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*state
}

type state struct {
	mu    sync.Mutex
	turns []models.Turn
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*state)}
}

// get returns the session for id, creating it on first touch.
func (s *Store) get(id string) *state {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok = s.sessions[id]; ok {
		return sess
	}
	sess = &state{}
	s.sessions[id] = sess
	return sess
}

// Append adds a turn to the session, stamping the time if unset.
// A brand-new session ID implicitly creates an empty session; never an error.
func (s *Store) Append(id string, turn models.Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	sess := s.get(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.turns = append(sess.turns, turn)
}

// History returns the most recent maxTurns turns, oldest first. maxTurns <= 0
// returns the full history. Older turns stay stored; they are only excluded
// from the returned window.
func (s *Store) History(id string, maxTurns int) []models.Turn {
	sess := s.get(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	turns := sess.turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the total number of turns stored for the session.
func (s *Store) Len(id string) int {
	sess := s.get(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return len(sess.turns)
}

// Clear removes the session's history.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Do runs fn while holding the session's lock. The chat path runs its whole
// retrieve-synthesize-append sequence under it, guaranteeing that the question
// is appended strictly before its answer even under concurrent requests.
func (s *Store) Do(id string, fn func(*Session) error) error {
	sess := s.get(id)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return fn(&Session{id: id, state: sess})
}

// Session is the locked view of one conversation handed to Do callbacks.
type Session struct {
	id    string
	state *state
}

// ID returns the session ID.
func (s *Session) ID() string { return s.id }

// Append adds a turn, stamping the time if unset.
func (s *Session) Append(turn models.Turn) {
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now()
	}
	s.state.turns = append(s.state.turns, turn)
}

// History returns the most recent maxTurns turns, oldest first.
func (s *Session) History(maxTurns int) []models.Turn {
	turns := s.state.turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	out := make([]models.Turn, len(turns))
	copy(out, turns)
	return out
}

// Len returns the total number of stored turns.
func (s *Session) Len() int { return len(s.state.turns) }
