package main

import (
	"context"
	"embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/second-chance/internal/catalog"
	"github.com/debemdeboas/second-chance/internal/config"
	"github.com/debemdeboas/second-chance/internal/db"
	"github.com/debemdeboas/second-chance/internal/draft"
	"github.com/debemdeboas/second-chance/internal/logger"
	"github.com/debemdeboas/second-chance/internal/model"
	"github.com/debemdeboas/second-chance/internal/preview"
	"github.com/debemdeboas/second-chance/internal/render"
	"github.com/debemdeboas/second-chance/internal/repository"
	"github.com/debemdeboas/second-chance/internal/sink"
)

//go:embed static/* templates/*
var content embed.FS

func main() {
	envErr := godotenv.Load()

	configPath := os.Getenv(config.EnvConfigPath)
	if configPath == "" {
		configPath = config.DefaultConfigPath
	}

	// The config decides the log level, so it is loaded with a bootstrap logger.
	bootLog := logger.New(os.Getenv(config.EnvLogLevel))
	config.SetLogger(bootLog)
	if err := config.LoadConfig(configPath); err != nil {
		bootLog.Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}
	cfg := config.AppConfig
	cfg.ApplyEnv(os.Getenv)

	log := logger.New(cfg.Logging.Level)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("No .env file loaded")
	}
	setLoggers(log)

	listings, closeDB, err := listingRepository(cfg.Catalog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open catalog")
	}
	defer closeDB()

	a, err := newApp(cfg, content, listings, sink.NewLogSink(log), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start")
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go a.drafts.Run(ctx, cfg.Drafts.SweepInterval, cfg.Drafts.IdleTTL)

	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler: a.routes(),
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Int("listings", a.catalog.Len()).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l.With().Str("component", "db").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	catalog.SetLogger(l.With().Str("component", "catalog").Logger())
	draft.SetLogger(l.With().Str("component", "draft").Logger())
	preview.SetLogger(l.With().Str("component", "preview").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
}

// listingRepository opens the configured catalog source. The returned function
// releases it.
func listingRepository(c config.CatalogConfig) (repository.ListingRepository, func(), error) {
	switch c.Source {
	case config.CatalogSourceSQLite:
		sqlite := db.NewSQLite(c.DatabasePath)
		if err := sqlite.InitDb(); err != nil {
			return nil, nil, err
		}
		return repository.NewDBListingRepository(sqlite), func() { sqlite.Close() }, nil
	default:
		if c.SeedFile != "" {
			return repository.NewFSListingRepository(c.SeedFile), func() {}, nil
		}
		return repository.NewMemoryListingRepository(model.DefaultListings()), func() {}, nil
	}
}
