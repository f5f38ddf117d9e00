// Package auth implements the shared-credential access gate: one
// username/password pair supplied by the deployment environment, opaque
// session tokens held in memory.
package auth

import (
	"crypto/subtle"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for a wrong username or password.
// There is no lockout or backoff; the user may simply retry.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Gate validates the shared credential and tracks active sessions.
type Gate struct {
	username     string
	passwordHash string // bcrypt

	mu       sync.Mutex
	sessions map[string]struct{}
}

// NewGate creates a gate for the configured credential.
func NewGate(username, passwordHash string) *Gate {
	return &Gate{
		username:     username,
		passwordHash: passwordHash,
		sessions:     make(map[string]struct{}),
	}
}

// Login checks the credential and returns a new session token.
func (g *Gate) Login(username, password string) (string, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(g.username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(g.passwordHash), []byte(password)) == nil
	if !userOK || !passOK {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	g.mu.Lock()
	g.sessions[token] = struct{}{}
	g.mu.Unlock()
	return token, nil
}

// Valid reports whether token belongs to an active session.
func (g *Gate) Valid(token string) bool {
	if token == "" {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.sessions[token]
	return ok
}

// Logout ends the session for token. Unknown tokens are ignored.
func (g *Gate) Logout(token string) {
	g.mu.Lock()
	delete(g.sessions, token)
	g.mu.Unlock()
}
