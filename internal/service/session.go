package service

import (
	"sync"
	"time"

	"github.com/set-night/subguard/internal/domain"
)

// SessionStore keeps per-user conversation state in memory. Access for a
// single user is serialized through Acquire; different users never contend
// beyond the short map lookup.
type SessionStore struct {
	mu      sync.Mutex
	entries map[int64]*sessionEntry
	now     func() time.Time
}

type sessionEntry struct {
	mu       sync.Mutex
	session  *domain.Session
	lastSeen time.Time
	refs     int
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		entries: make(map[int64]*sessionEntry),
		now:     time.Now,
	}
}

// SessionLock is exclusive access to one user's session. It must be released.
type SessionLock struct {
	store  *SessionStore
	userID int64
	entry  *sessionEntry
}

// Acquire blocks until no other event for userID holds the session.
func (s *SessionStore) Acquire(userID int64) *SessionLock {
	s.mu.Lock()
	e, ok := s.entries[userID]
	if !ok {
		e = &sessionEntry{lastSeen: s.now()}
		s.entries[userID] = e
	}
	e.refs++
	s.mu.Unlock()

	e.mu.Lock()
	return &SessionLock{store: s, userID: userID, entry: e}
}

// Get returns a copy of the session, or a fresh idle one if none exists.
func (l *SessionLock) Get() domain.Session {
	if l.entry.session == nil {
		return domain.NewSession()
	}
	return l.entry.session.Clone()
}

// Exists reports whether the user currently has a session.
func (l *SessionLock) Exists() bool {
	return l.entry.session != nil
}

// Set replaces the session. A terminal state clears it instead.
func (l *SessionLock) Set(sess domain.Session) {
	if sess.State.Terminal() {
		l.Clear()
		return
	}
	sess = sess.Clone()
	sess.UpdatedAt = l.store.now()
	l.entry.session = &sess
	l.entry.lastSeen = sess.UpdatedAt
}

// Clear removes the session.
func (l *SessionLock) Clear() {
	l.entry.session = nil
	l.entry.lastSeen = l.store.now()
}

// Release gives up exclusive access. Entries without a session and without
// waiters are dropped.
func (l *SessionLock) Release() {
	l.entry.mu.Unlock()

	s := l.store
	s.mu.Lock()
	defer s.mu.Unlock()
	l.entry.refs--
	if l.entry.refs == 0 && l.entry.session == nil {
		if s.entries[l.userID] == l.entry {
			delete(s.entries, l.userID)
		}
	}
}

// Get returns a copy of the user's session.
func (s *SessionStore) Get(userID int64) domain.Session {
	l := s.Acquire(userID)
	defer l.Release()
	return l.Get()
}

// Set stores the user's session.
func (s *SessionStore) Set(userID int64, sess domain.Session) {
	l := s.Acquire(userID)
	defer l.Release()
	l.Set(sess)
}

// Clear removes the user's session.
func (s *SessionStore) Clear(userID int64) {
	l := s.Acquire(userID)
	defer l.Release()
	l.Clear()
}

// Len returns the number of users with a live session.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		// session is only read when nobody holds the entry
		if e.refs > 0 || e.session != nil {
			n++
		}
	}
	return n
}

// Evict drops sessions that nobody holds and that were untouched for longer
// than maxIdle. It returns the number of sessions removed.
func (s *SessionStore) Evict(maxIdle time.Duration) int {
	cutoff := s.now().Add(-maxIdle)

	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if e.refs > 0 {
			continue
		}
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
