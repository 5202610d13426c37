package intake

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/parentalrights/complaint-portal-api/models"
)

// ErrSessionNotFound is returned when a session id is unknown or expired
var ErrSessionNotFound = errors.New("intake session not found")

// Session is one user's in-flight wizard: the draft, the current step and
// the identity the draft was opened under
type Session struct {
	ID         string
	Identity   models.Identity
	Draft      *Draft
	Step       Step
	LastActive time.Time
}

// Store owns all live intake sessions. Sessions are in-memory only: an
// abandoned draft disappears when the pruner reaps it, matching the
// lose-on-navigate behavior of the web form.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		sessions: map[string]*Session{},
		now:      time.Now,
	}
}

// Open starts a new wizard session for the given identity. The draft's name
// and email fields are pre-populated from the identity when available.
func (s *Store) Open(ident models.Identity) *Session {
	d := NewDraft()
	d.FirstName = ident.FirstName
	d.LastName = ident.LastName
	d.Email = ident.Email

	sess := &Session{
		ID:         uuid.New().String(),
		Identity:   ident,
		Draft:      d,
		Step:       StepIdentity,
		LastActive: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return sess
}

// Do runs fn against the named session while holding the store lock, so all
// mutations of one session are serialized. The session's LastActive is
// refreshed on every call.
func (s *Store) Do(id string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, found := s.sessions[id]
	if !found {
		return ErrSessionNotFound
	}
	sess.LastActive = s.now()
	return fn(sess)
}

// Remove discards a session, if present
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Prune discards sessions idle for longer than maxIdle and returns how many
// were removed
func (s *Store) Prune(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := s.now().Add(-maxIdle)
	removed := 0
	for id, sess := range s.sessions {
		if sess.LastActive.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports how many sessions are live
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
