// Package keygate tracks whether a usable Gemini API key is configured. The
// status is advisory: the provider call re-reads the credential itself, and a
// generation failing with an authentication error is what actually proves the
// key wrong. The gate exists to keep the form from submitting requests that
// are certain to fail.
package keygate

import (
	"context"
	"os"
	"strings"
	"sync"

	"videogen/internal/domain"
	"videogen/internal/infra/credentials"
)

// KeyStore is the slice of the credentials store the gate needs.
type KeyStore interface {
	GeminiAPIKey(ctx context.Context) (string, error)
	SetGeminiAPIKey(ctx context.Context, key string) error
}

// Status is the current credential state plus the last status-check message,
// if any.
type Status struct {
	Ready   bool   `json:"ready"`
	Message string `json:"message,omitempty"`
}

// Gate is the mutable credential cell. It is owned by the HTTP app container
// and only mutated through Probe, Select and Invalidate.
type Gate struct {
	mu    sync.Mutex
	ready bool
	msg   string
	store KeyStore
}

// New builds a gate over an optional key store. With a nil store the gate
// falls back to the GEMINI_API_KEY environment variable and key selection is
// unavailable.
func New(store KeyStore) *Gate {
	return &Gate{store: store}
}

// Probe refreshes the status from the store, falling back to the environment
// when no store is configured or the stored key is empty. Probe never fails:
// a store error is recorded as the status message and leaves the gate closed.
func (g *Gate) Probe(ctx context.Context) Status {
	ready := false
	msg := ""
	if g.store != nil {
		key, err := g.store.GeminiAPIKey(ctx)
		if err != nil {
			msg = "could not check key status: " + err.Error()
		} else {
			ready = key != ""
		}
	}
	if !ready && msg == "" {
		ready = strings.TrimSpace(os.Getenv(credentials.EnvGeminiKey)) != ""
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = ready
	g.msg = msg
	return Status{Ready: g.ready, Message: g.msg}
}

// Select persists a new key and optimistically opens the gate. The store
// write can land before a concurrent status read observes it; trusting the
// selection here and clearing any stale message avoids flapping the form
// while that settles. Without a store the selection flow is unavailable and
// the status is left untouched.
func (g *Gate) Select(ctx context.Context, key string) (Status, error) {
	if g.store == nil {
		return g.Status(), domain.ErrStoreUnavailable
	}
	if err := g.store.SetGeminiAPIKey(ctx, key); err != nil {
		return g.Status(), err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = true
	g.msg = ""
	return Status{Ready: g.ready}, nil
}

// Invalidate closes the gate. Called by the controller when a generation
// fails with an authentication-class error.
func (g *Gate) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ready = false
}

// Status returns the current cell without touching the store.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Status{Ready: g.ready, Message: g.msg}
}
