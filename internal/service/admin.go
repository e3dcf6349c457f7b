package service

import (
	"errors"
	"sync"
)

var (
	ErrInvalidPassphrase = errors.New("Contraseña incorrecta. Inténtalo de nuevo.")
	ErrAdminRequired     = errors.New("admin session required")
)

// Authenticator decides whether a passphrase opens the admin view
type Authenticator interface {
	Authenticate(passphrase string) bool
}

// StaticPassphrase compares against a single shared secret fixed at build time
type StaticPassphrase string

func (s StaticPassphrase) Authenticate(passphrase string) bool {
	return s != "" && string(s) == passphrase
}

// AdminGate holds the process-lifetime admin flag
type AdminGate struct {
	auth Authenticator

	mu         sync.RWMutex
	loggedIn   bool
	promptOpen bool
}

func NewAdminGate(auth Authenticator) *AdminGate {
	return &AdminGate{auth: auth}
}

// Login sets the admin flag and closes the prompt when the passphrase matches.
// A mismatch leaves the state untouched.
func (g *AdminGate) Login(passphrase string) error {
	if !g.auth.Authenticate(passphrase) {
		return ErrInvalidPassphrase
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loggedIn = true
	g.promptOpen = false
	return nil
}

func (g *AdminGate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.loggedIn = false
}

func (g *AdminGate) IsAdmin() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loggedIn
}

func (g *AdminGate) OpenPrompt() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.promptOpen = true
}

func (g *AdminGate) ClosePrompt() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.promptOpen = false
}

func (g *AdminGate) PromptOpen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.promptOpen
}
