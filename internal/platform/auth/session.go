package auth

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/clock"
)

// ErrNoSession is returned when a session ID is unknown or expired.
var ErrNoSession = errors.New("session not found")

// User is the signed-in account as seen by pages.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Phone      string `json:"phone,omitempty"`
	Title      string `json:"title,omitempty"`
	Department string `json:"department,omitempty"`
}

// Session is one entry of the auth store.
type Session struct {
	ID              string    `json:"id"`
	User            *User     `json:"user"`
	IsAuthenticated bool      `json:"isAuthenticated"`
	IsLoading       bool      `json:"isLoading"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

func (s *Session) clone() *Session {
	out := *s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return &out
}

// Store is the authentication store. Sessions live in memory and are keyed
// by an opaque ID that tokens carry as their jti.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    clock.Clock
}

func NewStore(c clock.Clock) *Store {
	return &Store{sessions: make(map[string]*Session), clock: c}
}

// Open creates an anonymous session that expires after ttl.
func (s *Store) Open(ttl time.Duration) *Session {
	sess := &Session{ID: uuid.New().String(), ExpiresAt: s.clock.Now().Add(ttl)}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess.clone()
}

// Put stores sess under its own ID, replacing any previous entry.
func (s *Store) Put(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess.clone()
	s.mu.Unlock()
}

// SetUser signs u into the session. A nil user signs the session out.
func (s *Store) SetUser(id string, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNoSession
	}
	if u == nil {
		sess.User = nil
		sess.IsAuthenticated = false
		return nil
	}
	cp := *u
	sess.User = &cp
	sess.IsAuthenticated = true
	return nil
}

// SetLoading flags the session as resolving.
func (s *Store) SetLoading(id string, loading bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return ErrNoSession
	}
	sess.IsLoading = loading
	return nil
}

// Get returns a copy of the session. Expired sessions are dropped.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if !sess.ExpiresAt.IsZero() && !s.clock.Now().Before(sess.ExpiresAt) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess.clone(), true
}

// Remove deletes the session.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
