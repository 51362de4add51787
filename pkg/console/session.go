package console

import (
	"sync"
	"time"
)

// Session holds the bearer token and profile of the logged-in user.
// It replaces browser storage: callers own it and pass it to a Client.
type Session struct {
	mu        sync.RWMutex
	token     string
	user      *User
	expiresAt time.Time
	now       func() time.Time
}

// SessionState is the serializable form of a Session
type SessionState struct {
	Token     string    `json:"token"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func NewSession() *Session {
	return &Session{now: time.Now}
}

// Init starts the session after a successful login
func (s *Session) Init(token string, user *User, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.expiresAt = expiresAt
}

// Clear ends the session; it is safe to call more than once
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.expiresAt = time.Time{}
}

// Token returns the bearer token, or an error when there is none or it has expired
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNotLoggedIn
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.token, nil
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) ExpiresAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expiresAt
}

// Active reports whether the session holds an unexpired token
func (s *Session) Active() bool {
	_, err := s.Token()
	return err == nil
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionState{Token: s.token, User: s.user, ExpiresAt: s.expiresAt}
}

// Restore loads a previously saved state. Expired states are kept so that
// Token reports ErrSessionExpired instead of ErrNotLoggedIn.
func (s *Session) Restore(st SessionState) {
	s.Init(st.Token, st.User, st.ExpiresAt)
}
