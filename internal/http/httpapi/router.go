package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"videogen/internal/http/handlers"
	"videogen/internal/infra"
	mw "videogen/internal/middleware"
)

func NewRouter(cfg *infra.Config, logger infra.Logger, app *handlers.App, country mw.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		mw.RequestID,
		mw.Logger(logger),
		mw.CORS(cfg.CORSOrigins),
		mw.RateLimit(cfg.RateLimitPerMin, time.Minute),
		mw.I18N(cfg.DefaultLocale, country),
	)

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/key", func(r chi.Router) {
		r.Get("/status", app.KeyStatus)
		r.Post("/", app.KeySelect)
	})

	r.Route("/v1/videos", func(r chi.Router) {
		r.Post("/generate", app.VideosGenerate)
		r.Get("/", app.VideosList)
		r.Get("/{id}/download", app.VideosDownload)
	})

	return r
}
