package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
)

// CSRFStore is the capability a form renderer needs to issue anti-forgery
// tokens. Implementations bound to a shared session must be safe for
// concurrent use.
type CSRFStore interface {
	// CSRFToken returns the current token, if one was issued.
	CSRFToken() (string, bool)
	// NewCSRFToken issues, stores and returns a fresh token.
	NewCSRFToken() (string, error)
}

// TokenGenerator produces new CSRF token values.
type TokenGenerator func() (string, error)

// TokenBytes is the amount of randomness in tokens from GenerateToken.
const TokenBytes = 20

// GenerateToken returns TokenBytes of crypto/rand output, hex encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, TokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// EnsureCSRFToken returns the store's token, issuing one first when none
// exists. Once a token is issued repeated calls return it unchanged.
func EnsureCSRFToken(store CSRFStore) (string, error) {
	if store == nil {
		return "", errors.New("session: csrf store is required")
	}
	if token, ok := store.CSRFToken(); ok && token != "" {
		return token, nil
	}
	token, err := store.NewCSRFToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("session: csrf store issued an empty token")
	}
	return token, nil
}

// Session is an in-memory session holding a CSRF token and arbitrary values.
type Session struct {
	mu        sync.RWMutex
	id        string
	token     string
	values    map[string]any
	generator TokenGenerator
}

var _ CSRFStore = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithTokenGenerator swaps the token generator, mostly for tests.
func WithTokenGenerator(generator TokenGenerator) Option {
	return func(s *Session) {
		if generator != nil {
			s.generator = generator
		}
	}
}

// New creates an empty session.
func New(id string, options ...Option) *Session {
	s := &Session{
		id:        id,
		values:    make(map[string]any),
		generator: GenerateToken,
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) CSRFToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

func (s *Session) NewCSRFToken() (string, error) {
	token, err := s.generator()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return token, nil
}

// CheckCSRFToken compares candidate with the issued token in constant time.
// It is false when no token was issued.
func (s *Session) CheckCSRFToken(candidate string) bool {
	token, ok := s.CSRFToken()
	if !ok || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(candidate)) == 1
}

// Get returns a stored value.
func (s *Session) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set stores a value.
func (s *Session) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes a value.
func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}
