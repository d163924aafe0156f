package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"videogen/internal/infra"
	"videogen/internal/keygate"
	"videogen/internal/providers/video"
	"videogen/internal/storage"
)

// App is the handler container. SQL and Files are optional: without a
// database the history endpoints answer 501 and key selection is
// unavailable; without a file store downloads are never cached.
type App struct {
	Logger infra.Logger
	SQL    infra.SQLExecutor
	Gate   *keygate.Gate
	Videos video.Generator
	Fetch  video.Fetcher
	Files  *storage.FileStore

	// Guards the single-in-flight generation invariant.
	mu         sync.Mutex
	generating bool
}

func NewApp(logger infra.Logger, sql infra.SQLExecutor, gate *keygate.Gate, videos video.Generator, fetch video.Fetcher, files *storage.FileStore) *App {
	return &App{
		Logger: logger,
		SQL:    sql,
		Gate:   gate,
		Videos: videos,
		Fetch:  fetch,
		Files:  files,
	}
}

// beginGeneration claims the in-flight slot; a false return means another
// generation is still running.
func (a *App) beginGeneration() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.generating {
		return false
	}
	a.generating = true
	return true
}

func (a *App) endGeneration() {
	a.mu.Lock()
	a.generating = false
	a.mu.Unlock()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// event writes one Server-Sent Event and flushes it out immediately.
func (a *App) event(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}
