package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"videogen/internal/infra"
	"videogen/internal/sqlinline"
)

const (
	ProviderGemini = "gemini"

	// EnvGeminiKey is the ambient credential consulted when no stored key
	// exists, and by deployments that run without a database at all.
	EnvGeminiKey = "GEMINI_API_KEY"
)

// Store persists provider API keys through the shared SQL executor.
type Store struct {
	sql infra.SQLExecutor
}

func NewStore(sql infra.SQLExecutor) *Store {
	return &Store{sql: sql}
}

func (s *Store) GeminiAPIKey(ctx context.Context) (string, error) {
	return s.Token(ctx, ProviderGemini)
}

func (s *Store) Token(ctx context.Context, provider string) (string, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectIntegrationToken, provider)
	var token string
	if err := row.Scan(&token); err != nil {
		if infra.IsNoRows(err) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(token), nil
}

func (s *Store) SetGeminiAPIKey(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("gemini api key is required")
	}
	return s.upsert(ctx, ProviderGemini, key, nil)
}

func (s *Store) upsert(ctx context.Context, provider, token string, props map[string]any) error {
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.sql.Exec(ctx, sqlinline.QUpsertIntegrationToken, provider, token, raw)
	return err
}

// Resolver produces the credential used for a provider call. The key is
// re-read on every call rather than cached: a key rotated through the store
// (or the environment) must take effect on the next generation, not the next
// process restart.
type Resolver struct {
	store *Store
}

// NewResolver wraps an optional store. A nil store resolves from the
// environment only.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store}
}

// APIKey returns the stored Gemini key when present, falling back to the
// GEMINI_API_KEY environment variable.
func (r *Resolver) APIKey(ctx context.Context) (string, error) {
	if r != nil && r.store != nil {
		key, err := r.store.GeminiAPIKey(ctx)
		if err != nil {
			return "", err
		}
		if key != "" {
			return key, nil
		}
	}
	return strings.TrimSpace(os.Getenv(EnvGeminiKey)), nil
}
