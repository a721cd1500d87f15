// Package session holds the per-request authentication state of an admin:
// the bearer token pair and the password-reset flow.
package session

import "sync"

// TokenReader is the read side of a token store; the API client and the
// route guard only ever need this.
type TokenReader interface {
	Token() (string, bool)
}

// Store persists the access token and refresh token of one admin session.
type Store interface {
	TokenReader
	RefreshToken() (string, bool)
	Set(token, refreshToken string)
	Remove()
}

// MemoryStore keeps the token pair in process memory.
type MemoryStore struct {
	mu           sync.RWMutex
	token        string
	refreshToken string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *MemoryStore) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken, s.refreshToken != ""
}

func (s *MemoryStore) Set(token, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.refreshToken = refreshToken
}

func (s *MemoryStore) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.refreshToken = ""
}

type fallbackStore struct {
	primary   Store
	secondary Store
}

// Fallback reads from primary and falls back to secondary when primary holds
// no token. Writes and removals go to both.
func Fallback(primary, secondary Store) Store {
	return &fallbackStore{primary: primary, secondary: secondary}
}

func (s *fallbackStore) Token() (string, bool) {
	if token, ok := s.primary.Token(); ok {
		return token, true
	}
	return s.secondary.Token()
}

func (s *fallbackStore) RefreshToken() (string, bool) {
	if token, ok := s.primary.RefreshToken(); ok {
		return token, true
	}
	return s.secondary.RefreshToken()
}

func (s *fallbackStore) Set(token, refreshToken string) {
	s.primary.Set(token, refreshToken)
	s.secondary.Set(token, refreshToken)
}

func (s *fallbackStore) Remove() {
	s.primary.Remove()
	s.secondary.Remove()
}
