package backend

import (
	"sync"

	"github.com/mamadbah2/biogeles/internal/domain/models"
)

// Session holds the bearer token of one operator. It is set on login and
// cleared on logout or on any unauthorized response.
type Session struct {
	mu         sync.RWMutex
	token      string
	user       models.User
	remembered string
}

// NewSession returns an empty, unauthenticated session.
func NewSession() *Session {
	return &Session{}
}

// NewServiceSession returns a session pre-loaded with a long-lived service token.
func NewServiceSession(token string) *Session {
	return &Session{token: token}
}

// Start records the token and profile returned by a successful login.
func (s *Session) Start(token string, user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
}

// Token returns the current bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// User returns the signed-in profile.
func (s *Session) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.token != ""
}

// Clear drops the token and profile. The remembered email survives.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = models.User{}
}

// Remember stores the email to prefill on the next login; "" forgets it.
func (s *Session) Remember(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remembered = email
}

// RememberedEmail returns the email stored by Remember.
func (s *Session) RememberedEmail() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remembered
}
