package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/tensorplex-labs/picksettle/internal/config"
	"github.com/tensorplex-labs/picksettle/internal/pickserver"
	"github.com/tensorplex-labs/picksettle/internal/pickstore"
	"github.com/tensorplex-labs/picksettle/internal/utils/logger"
)

func main() {
	logger.Init()
	log.Info().Msg("Starting pick server...")

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load environment configuration")
	}

	store, err := pickstore.New(&cfg.StoreEnvConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pick store")
	}

	srv, err := pickserver.NewServer(&cfg.ServerEnvConfig, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pick server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("pick server stopped")
}
