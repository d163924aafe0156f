package infra

import (
	"context"
	"net/http"
	"time"
)

// HTTPServer wraps http.Server for the video form's API. The write timeout
// defaults to zero (see Config): the generate endpoint streams SSE progress
// for the lifetime of a poll loop, which outlives any sane write deadline,
// so slow-client protection comes from the read-header timeout and the
// request-scoped contexts instead.
type HTTPServer struct {
	server *http.Server
}

func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}

	return &HTTPServer{server: srv}
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	if s.server == nil {
		return ""
	}
	return s.server.Addr
}

// Start runs the HTTP server in the current goroutine.
func (s *HTTPServer) Start() error {
	if s.server == nil {
		return nil
	}
	return s.server.ListenAndServe()
}

// Shutdown stops accepting connections and drains in-flight requests. An
// open SSE stream ends when its request context is cancelled or the
// shutdown context expires, whichever comes first.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
