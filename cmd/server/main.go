// Command server boots the CardioAI backend: configuration, logging,
// tracing, storage, inference artifacts, and the HTTP transport, then serves
// until SIGINT/SIGTERM and shuts down gracefully.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cardioai/cardioai-backend/internal/config"
	httpapi "github.com/cardioai/cardioai-backend/internal/http"
	"github.com/cardioai/cardioai-backend/internal/inference"
	"github.com/cardioai/cardioai-backend/internal/observability"
	"github.com/cardioai/cardioai-backend/internal/repo"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Load .env when present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(c); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := repo.Open(cfg, cfg.OTEL.Enabled)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("database open failed")
	}
	if err := repo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	if err := repo.SeedDoctors(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("doctor seeding failed")
	}

	// Missing artifacts are not fatal: the service boots and /predict
	// answers 503 until they are provided.
	predictor, err := inference.Load(cfg.ModelPath, cfg.ScalerPath)
	if err != nil {
		log.Warn().Err(err).
			Str("model", cfg.ModelPath).
			Str("scaler", cfg.ScalerPath).
			Msg("inference artifacts unavailable, predictions disabled")
		predictor = nil
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, predictor, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("version", version).
			Str("driver", cfg.DBDriver).
			Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("stopped")
}

// setupLogging configures the global zerolog logger from config.
func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
