package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"videogen/internal/http/handlers"
	httpapi "videogen/internal/http/httpapi"
	"videogen/internal/infra"
	"videogen/internal/infra/credentials"
	"videogen/internal/infra/geoip"
	"videogen/internal/keygate"
	mw "videogen/internal/middleware"
	"videogen/internal/providers/video"
	"videogen/internal/storage"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()

	// DB pool is optional: without DATABASE_URL the service runs on the
	// environment credential alone, with key selection and history disabled.
	var sql infra.SQLExecutor
	var store *credentials.Store
	if cfg.DatabaseURL != "" {
		dbpool, err := infra.NewDBPool(ctx, cfg)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect database")
		}
		defer dbpool.Close()
		runner := infra.NewSQLRunner(dbpool, logger)
		sql = runner
		store = credentials.NewStore(runner)
	}

	gate := keygate.New(storeOrNil(store))
	status := gate.Probe(ctx)
	logger.Info().Bool("key_ready", status.Ready).Msg("credential status checked")

	generator := video.NewVeo(video.VeoOptions{
		Keys:         credentials.NewResolver(store),
		BaseURL:      cfg.GeminiBaseURL,
		Model:        cfg.VeoModel,
		PollInterval: cfg.PollInterval,
		Logger:       &logger,
	})

	var files *storage.FileStore
	if cfg.StoragePath != "" {
		files, err = storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to init file store")
		}
	}

	var country mw.CountryLookup
	if resolver, err := geoip.NewResolver(cfg.GeoIPDBPath); err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	} else if resolver != nil {
		country = resolver.CountryCode
	}

	app := handlers.NewApp(logger, sql, gate, generator, generator, files)
	router := httpapi.NewRouter(cfg, logger, app, country)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// storeOrNil keeps a typed-nil *credentials.Store from leaking into the
// keygate.KeyStore interface.
func storeOrNil(store *credentials.Store) keygate.KeyStore {
	if store == nil {
		return nil
	}
	return store
}
