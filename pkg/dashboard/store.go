package dashboard

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store keeps dashboard sessions in memory, keyed by session id
type Store struct {
	ttl  time.Duration
	opts Options

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	state    State
	lastSeen time.Time
}

// NewStore makes an empty store, sessions idle longer than ttl are removed by Sweep
func NewStore(ttl time.Duration, opts Options) *Store {
	return &Store{ttl: ttl, opts: opts, sessions: make(map[string]*session)}
}

// NewSession creates an empty session and returns its id
func (s *Store) NewSession() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = &session{lastSeen: time.Now()}
	s.mu.Unlock()
	return id
}

// Get returns session state, ok is false for unknown or expired ids
func (s *Store) Get(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return State{}, false
	}
	sess.lastSeen = time.Now()
	return sess.state, true
}

// Dispatch reduces the action into the session state and returns the new state.
// Unknown ids get a fresh session, so a dispatch never gets lost.
func (s *Store) Dispatch(id string, action Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		sess = &session{}
		s.sessions[id] = sess
	}
	sess.lastSeen = time.Now()

	next, err := Reduce(sess.state, action, s.opts)
	if err != nil {
		return sess.state, err
	}
	sess.state = next
	return next, nil
}

// Len returns number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes sessions idle longer than ttl and returns how many were removed
func (s *Store) Sweep(now time.Time) int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
