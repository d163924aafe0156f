package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videogen/internal/domain"
	"videogen/internal/middleware"
	"videogen/internal/providers/video"
	"videogen/internal/sqlinline"
)

type videoGenerateRequest struct {
	Prompt string `json:"prompt"`
}

// VideosGenerate runs one generation end to end, streaming progress as
// Server-Sent Events and finishing with a `result` or `error` event. Only
// one generation may be in flight at a time; the poll loop runs inside this
// handler, so the response stays open for the duration.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req videoGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.error(w, http.StatusBadRequest, "validation_error", domain.ErrEmptyPrompt.Error())
		return
	}
	if !a.Gate.Status().Ready {
		a.error(w, http.StatusBadRequest, "validation_error", domain.ErrKeyNotConfigured.Error())
		return
	}
	if !a.beginGeneration() {
		a.error(w, http.StatusConflict, "busy", domain.ErrGenerationBusy.Error())
		return
	}
	defer a.endGeneration()

	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	id := uuid.NewString()
	locale := middleware.LocaleFromContext(r.Context())
	genReq := video.GenerateRequest{
		Prompt:    prompt,
		Locale:    locale,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	}
	asset, err := a.Videos.Generate(r.Context(), genReq, func(message string) {
		a.event(w, flusher, "progress", map[string]string{"message": message})
	})
	if err != nil {
		kind := "generation_failed"
		if errors.Is(err, domain.ErrKeyInvalid) {
			// The optimistic credential assumption was wrong; close the gate
			// so the form sends the user back through key selection.
			a.Gate.Invalidate()
			kind = "auth_error"
		}
		a.recordGeneration(r.Context(), domain.Generation{
			ID:           id,
			Prompt:       prompt,
			Locale:       locale,
			Status:       domain.GenerationFailed,
			ErrorMessage: err.Error(),
		})
		a.event(w, flusher, "error", map[string]string{"kind": kind, "message": err.Error()})
		return
	}

	a.recordGeneration(r.Context(), domain.Generation{
		ID:       id,
		Prompt:   prompt,
		Locale:   locale,
		Status:   domain.GenerationSucceeded,
		VideoURL: asset.URL,
	})
	a.event(w, flusher, "result", map[string]string{"id": id, "video_url": asset.URL})
}

// VideosList returns recent generation history, newest first.
func (a *App) VideosList(w http.ResponseWriter, r *http.Request) {
	if a.SQL == nil {
		a.error(w, http.StatusNotImplemented, "history_unavailable", domain.ErrHistoryDisabled.Error())
		return
	}
	rows, err := a.SQL.Query(r.Context(), sqlinline.QListGenerations, 50)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to fetch history")
		return
	}
	defer rows.Close()

	items := make([]domain.Generation, 0)
	for rows.Next() {
		var g domain.Generation
		if err := rows.Scan(&g.ID, &g.Prompt, &g.Locale, &g.Status, &g.VideoURL, &g.ErrorMessage, &g.CreatedAt); err != nil {
			// A malformed row is dropped, not fatal, but it must show up in
			// the logs: a silent skip here makes schema drift look like an
			// empty history.
			a.Logger.Warn().Err(err).Msg("videos: failed to scan history row")
			continue
		}
		items = append(items, g)
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// VideosDownload streams the generated video bytes, caching them in the file
// store when one is configured. The stored URL already carries the provider
// credential, so it is fetched as-is.
func (a *App) VideosDownload(w http.ResponseWriter, r *http.Request) {
	if a.SQL == nil {
		a.error(w, http.StatusNotImplemented, "history_unavailable", domain.ErrHistoryDisabled.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if id == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "id required")
		return
	}
	gen, err := a.loadGeneration(r.Context(), id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "generation not found")
		return
	}
	if gen.Status != domain.GenerationSucceeded || gen.VideoURL == "" {
		a.error(w, http.StatusConflict, "not_ready", "generation has no video")
		return
	}

	cacheKey := "videos/" + id + ".mp4"
	if a.Files != nil {
		if data, err := a.Files.Read(r.Context(), cacheKey); err == nil {
			serveVideo(w, data, "")
			return
		} else if !errors.Is(err, os.ErrNotExist) {
			a.Logger.Warn().Err(err).Str("id", id).Msg("videos: cache read failed")
		}
	}

	data, contentType, err := a.Fetch.Fetch(r.Context(), gen.VideoURL)
	if err != nil {
		a.Logger.Warn().Err(err).Str("id", id).Msg("videos: provider fetch failed")
		a.error(w, http.StatusBadGateway, "download_failed", "failed to fetch video from provider")
		return
	}
	if a.Files != nil {
		if _, err := a.Files.Write(r.Context(), cacheKey, data); err != nil {
			a.Logger.Warn().Err(err).Str("id", id).Msg("videos: cache write failed")
		}
	}
	serveVideo(w, data, contentType)
}

func (a *App) loadGeneration(ctx context.Context, id string) (*domain.Generation, error) {
	row := a.SQL.QueryRow(ctx, sqlinline.QSelectGeneration, id)
	var g domain.Generation
	if err := row.Scan(&g.ID, &g.Prompt, &g.Locale, &g.Status, &g.VideoURL, &g.ErrorMessage, &g.CreatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// recordGeneration persists one settled request. History is best-effort: a
// write failure is logged, never surfaced to the client. The write uses a
// detached context so a client disconnecting right after settlement does not
// lose the record.
func (a *App) recordGeneration(ctx context.Context, gen domain.Generation) {
	if a.SQL == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	_, err := a.SQL.Exec(ctx, sqlinline.QInsertGeneration,
		gen.ID, gen.Prompt, gen.Locale, gen.Status, gen.VideoURL, gen.ErrorMessage)
	if err != nil {
		a.Logger.Error().Err(err).Str("id", gen.ID).Msg("videos: failed to record generation")
	}
}

func serveVideo(w http.ResponseWriter, data []byte, contentType string) {
	if contentType == "" {
		contentType = "video/mp4"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
